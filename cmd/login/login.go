package login

import (
	"context"
	"fmt"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/spf13/cobra"
)

var savePassword bool

func init() {
	cmd.Root.AddCommand(commandDefinition)
	commandDefinition.Flags().BoolVarP(&savePassword, "save-password", "", false, "Save the username and obscured password in the config file")
}

var commandDefinition = &cobra.Command{
	Use:   "login",
	Short: `Log in to NAVER.`,
	Long: `
Log in to NAVER with the configured username and password, asking for
the password if it isn't set.

If the account uses OTP push confirmation a notification is sent to
the NAVER app and mybox waits up to --otp-timeout for it to be
approved.

With --offline-mode the session cookies are saved in the auth store
(see --auth-store) so later commands don't need to log in again.
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(0, 0, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			s, err := cmd.NewSession()
			if err != nil {
				return err
			}
			res, err := s.Login(ctx)
			if err != nil {
				return err
			}
			fs.Debugf(nil, "Login ended in state %v", res.State)
			if savePassword {
				if err := s.SavePassword(s.Opt.Username, s.Opt.Password); err != nil {
					return err
				}
				fs.Logf(nil, "Saved password to %q", s.Config.Path())
			}
			if s.Opt.OfflineMode {
				fmt.Printf("Logged in as %s - credentials saved to %v\n", s.Opt.Username, s.Persist)
			} else {
				fmt.Printf("Logged in as %s\n", s.Opt.Username)
			}
			return nil
		})
	},
}
