package recent

import (
	"context"
	"os"

	"github.com/myboxcli/mybox/cmd"
	"github.com/spf13/cobra"
)

var format cmd.ListFormat

func init() {
	cmd.Root.AddCommand(commandDefinition)
	flags := commandDefinition.Flags()
	flags.BoolVarP(&format.Human, "human-readable", "", false, "Print sizes in human readable format")
	flags.BoolVarP(&format.Keys, "keys", "", false, "Print the resource keys")
}

var commandDefinition = &cobra.Command{
	Use:   "recent",
	Short: `List the files accessed in the last two weeks.`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(0, 0, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			items, err := c.Recent(ctx)
			if err != nil {
				return err
			}
			return cmd.PrintItems(os.Stdout, items, format)
		})
	},
}
