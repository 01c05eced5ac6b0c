package delete

import (
	"context"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/spf13/cobra"
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
}

var commandDefinition = &cobra.Command{
	Use:   "delete path [path...]",
	Short: `Move the files or folders at path to the trash.`,
	Long: `
Moves each path to the MYBOX trash. Folders are moved with their
contents. Use the web app to empty the trash.
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(1, 1<<30, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			for _, p := range args {
				key, err := c.ResolvePath(ctx, p)
				if err != nil {
					return err
				}
				if err := c.Delete(ctx, key); err != nil {
					return err
				}
				fs.Infof(p, "Deleted")
			}
			return nil
		})
	},
}
