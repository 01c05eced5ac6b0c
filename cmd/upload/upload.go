package upload

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/myboxcli/mybox/cmd"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/lib/readers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
}

var commandDefinition = &cobra.Command{
	Use:   "upload file dest",
	Short: `Upload a local file.`,
	Long: `
Uploads the local file to dest. If dest ends in / the file is put in
that folder keeping its name, otherwise dest is the new file name.
Missing folders are made.

    mybox upload cat.jpg /photos/
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(2, 2, command, args)
		src, dst := args[0], args[1]
		dir, name := path.Split(dst)
		if strings.HasSuffix(dst, "/") || name == "" {
			dir, name = dst, filepath.Base(src)
		}
		cmd.Run(command, func(ctx context.Context) (err error) {
			in, err := os.Open(src)
			if err != nil {
				return err
			}
			defer fs.CheckClose(in, &err)
			fi, err := in.Stat()
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return errors.Errorf("%q is a directory", src)
			}
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			parentKey, err := c.MkdirAll(ctx, dir)
			if err != nil {
				return err
			}
			key, err := c.Upload(ctx, parentKey, name, readers.NewContextReader(ctx, in), fi.Size())
			if err != nil {
				return err
			}
			fs.Infof(src, "Uploaded to %q with key %q", path.Join(dir, name), key)
			return nil
		})
	},
}
