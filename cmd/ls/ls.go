package ls

import (
	"context"
	"os"

	"github.com/myboxcli/mybox/backend/mybox"
	"github.com/myboxcli/mybox/cmd"
	"github.com/spf13/cobra"
)

var (
	opt      mybox.ListOptions
	dirsOnly bool
	photos   bool
	format   cmd.ListFormat
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
	flags := commandDefinition.Flags()
	flags.BoolVarP(&dirsOnly, "dirs-only", "", false, "Only list folders")
	flags.BoolVarP(&photos, "photos", "", false, "Only list photos")
	flags.StringVarP(&opt.Sort, "sort", "", "create", "Sort by create or name")
	flags.StringVarP(&opt.Order, "order", "", "desc", "Order asc or desc")
	flags.IntVarP(&opt.PagingRow, "paging-row", "", 0, "Number of items to fetch per request")
	flags.BoolVarP(&format.Human, "human-readable", "", false, "Print sizes in human readable format")
	flags.BoolVarP(&format.Keys, "keys", "", false, "Print the resource keys")
}

var commandDefinition = &cobra.Command{
	Use:   "ls [path]",
	Short: `List the folder at path, the root if not given.`,
	Long: `
Lists the folder at path with the type, size, modification time and
path of each item.

    $ mybox ls /photos
    d        -1 2023-07-04 09:44:23 /photos/2023/
    -      1234 2023-07-04 09:44:23 /photos/cat.jpg
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(0, 1, command, args)
		p := "/"
		if len(args) > 0 {
			p = args[0]
		}
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			key, err := c.ResolvePath(ctx, p)
			if err != nil {
				return err
			}
			lo := opt
			if dirsOnly {
				lo.FileOption = "folder"
			}
			if photos {
				lo.ResourceOption = "photo"
			}
			items, err := c.List(ctx, key, lo)
			if err != nil {
				return err
			}
			return cmd.PrintItems(os.Stdout, items, format)
		})
	},
}
