package mkdir

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
	Use:   "mkdir path",
	Short: `Make the folder at path and any missing parents.`,
	Long: `
Makes the folder at path. Folders which already exist are not an
error.
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(1, 1, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			key, err := c.MkdirAll(ctx, args[0])
			if err != nil {
				return err
			}
			fs.Infof(args[0], "Folder has key %q", key)
			return nil
		})
	},
}
