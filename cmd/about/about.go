package about

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/myboxcli/mybox/backend/mybox/api"
	"github.com/myboxcli/mybox/cmd"
	"github.com/spf13/cobra"
)

var jsonOutput bool

func init() {
	cmd.Root.AddCommand(commandDefinition)
	commandDefinition.Flags().BoolVarP(&jsonOutput, "json", "", false, "Format output as JSON")
}

// about is the output of the about command
type about struct {
	User    string `json:"user"`
	Total   int64  `json:"total"`
	Used    int64  `json:"used"`
	Free    int64  `json:"free"`
	Trashed int64  `json:"trashed"`
	MaxFile int64  `json:"maxFile"`
}

func newAbout(user *api.UserInfo, quota *api.Quota) *about {
	return &about{
		User:    user.UserID,
		Total:   quota.TotalQuota,
		Used:    quota.UsedQuota,
		Free:    quota.UnusedQuota,
		Trashed: quota.Waste.Size,
		MaxFile: quota.FileMaxSize,
	}
}

func (a *about) print() {
	fmt.Printf("User:     %s\n", a.User)
	fmt.Printf("Total:    %s\n", humanize.IBytes(uint64(a.Total)))
	fmt.Printf("Used:     %s\n", humanize.IBytes(uint64(a.Used)))
	fmt.Printf("Free:     %s\n", humanize.IBytes(uint64(a.Free)))
	fmt.Printf("Trashed:  %s\n", humanize.IBytes(uint64(a.Trashed)))
	fmt.Printf("Max file: %s\n", humanize.IBytes(uint64(a.MaxFile)))
}

var commandDefinition = &cobra.Command{
	Use:   "about",
	Short: `Get quota information from MYBOX.`,
	Long: `
Get the account name and the quota information, like bytes
used/free/quota and bytes used in the trash.

    $ mybox about
    User:     bob
    Total:    30 GiB
    Used:     1.2 GiB
    Free:     29 GiB
    Trashed:  10 MiB
    Max file: 4.0 GiB

Use the --json flag for a computer readable output.
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(0, 0, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			user, err := c.UserInfo(ctx)
			if err != nil {
				return err
			}
			quota, err := c.Quota(ctx)
			if err != nil {
				return err
			}
			a := newAbout(user, quota)
			if jsonOutput {
				out := json.NewEncoder(os.Stdout)
				out.SetIndent("", "\t")
				return out.Encode(a)
			}
			a.print()
			return nil
		})
	},
}
