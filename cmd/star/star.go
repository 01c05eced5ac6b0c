package star

import (
	"context"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/spf13/cobra"
)

var unstar bool

func init() {
	cmd.Root.AddCommand(commandDefinition)
	commandDefinition.Flags().BoolVarP(&unstar, "unstar", "", false, "Remove the star instead")
}

var commandDefinition = &cobra.Command{
	Use:   "star path",
	Short: `Star a file or folder.`,
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
			if err := c.SetStar(ctx, key, !unstar); err != nil {
				return err
			}
			fs.Infof(args[0], "Set star to %v", !unstar)
			return nil
		})
	},
}
