package version

import (
	"context"

	"github.com/myboxcli/mybox/cmd"
	"github.com/spf13/cobra"
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
}

var commandDefinition = &cobra.Command{
	Use:   "version",
	Short: `Show the version number.`,
	Long: `
Show the version number, the go version and the architecture.

Eg

    $ mybox version
    mybox v0.1.0
    - os/type: linux
    - os/arch: amd64
    - go/version: go1.18
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(0, 0, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			cmd.ShowVersion()
			return nil
		})
	},
}
