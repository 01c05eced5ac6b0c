package obscure

import (
	"context"
	"fmt"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs/config/obscure"
	"github.com/spf13/cobra"
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
}

var commandDefinition = &cobra.Command{
	Use:   "obscure password",
	Short: `Obscure password for use in the mybox config file or MYBOX_PASSWORD.`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(1, 1, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			obscured, err := obscure.Obscure(args[0])
			if err != nil {
				return err
			}
			fmt.Println(obscured)
			return nil
		})
	},
}
