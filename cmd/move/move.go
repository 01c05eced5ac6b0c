package move

import (
	"context"
	"path"
	"strings"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/spf13/cobra"
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
}

var commandDefinition = &cobra.Command{
	Use:   "move source dest",
	Short: `Move or rename a file or folder.`,
	Long: `
If dest ends in / the source is moved into that folder keeping its
name, otherwise it is moved to the parent of dest and renamed to the
last element of dest. Missing folders are made.

    mybox move /photos/cat.jpg /pets/        # /pets/cat.jpg
    mybox move /photos/cat.jpg /pets/tom.jpg # /pets/tom.jpg
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(2, 2, command, args)
		src, dst := args[0], args[1]
		dir, name := path.Split(dst)
		if strings.HasSuffix(dst, "/") || name == "" {
			dir, name = dst, path.Base(strings.TrimSuffix(src, "/"))
		}
		cmd.Run(command, func(ctx context.Context) error {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			key, err := c.ResolvePath(ctx, src)
			if err != nil {
				return err
			}
			dirKey, err := c.MkdirAll(ctx, dir)
			if err != nil {
				return err
			}
			if err := c.Move(ctx, key, dirKey, name); err != nil {
				return err
			}
			fs.Infof(src, "Moved to %q", dst)
			return nil
		})
	},
}
