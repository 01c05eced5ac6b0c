package link

import (
	"context"
	"fmt"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/spf13/cobra"
)

var unlink bool

func init() {
	cmd.Root.AddCommand(commandDefinition)
	commandDefinition.Flags().BoolVarP(&unlink, "unlink", "", false, "Remove the existing sharing link")
}

var commandDefinition = &cobra.Command{
	Use:   "link path",
	Short: `Generate a public link to a file or folder.`,
	Long: `
mybox link will create or retrieve a public link to the given file or
folder.

    mybox link /photos/cat.jpg
    https://naver.me/xxxxxxxx

If a link already exists it is returned. Use the --unlink flag to
remove the existing link.
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(1, 1, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			key, err := c.ResolvePath(ctx, args[0])
			if err != nil {
				return err
			}
			if unlink {
				if err := c.DeleteLink(ctx, key); err != nil {
					return err
				}
				fs.Infof(args[0], "Removed link")
				return nil
			}
			link, err := c.CreateLink(ctx, key)
			if err != nil {
				return err
			}
			fmt.Println(link.ShortURL)
			return nil
		})
	},
}
