package download

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/lib/readers"
	"github.com/spf13/cobra"
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
}

var commandDefinition = &cobra.Command{
	Use:   "download path [file]",
	Short: `Download a file.`,
	Long: `
Downloads the file at path to the local file, or to a file with the
same name in the current directory if not given. Use - to write to
standard output.

    mybox download /photos/cat.jpg
    mybox download /notes.txt - | less
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(1, 2, command, args)
		src := args[0]
		dst := path.Base(src)
		if len(args) > 1 {
			dst = args[1]
		}
		cmd.Run(command, func(ctx context.Context) (err error) {
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			key, err := c.ResolvePath(ctx, src)
			if err != nil {
				return err
			}
			in, err := c.Download(ctx, key)
			if err != nil {
				return err
			}
			defer fs.CheckClose(in, &err)
			var out io.Writer = os.Stdout
			if dst != "-" {
				if fi, statErr := os.Stat(dst); statErr == nil && fi.IsDir() {
					dst = filepath.Join(dst, path.Base(src))
				}
				f, err := os.Create(dst)
				if err != nil {
					return err
				}
				defer fs.CheckClose(f, &err)
				out = f
			}
			n, err := io.Copy(out, readers.NewContextReader(ctx, in))
			if err != nil {
				return err
			}
			fs.Infof(src, "Downloaded %d bytes", n)
			return nil
		})
	},
}
