package search

import (
	"context"
	"os"

	"github.com/myboxcli/mybox/backend/mybox"
	"github.com/myboxcli/mybox/cmd"
	"github.com/spf13/cobra"
)

var (
	opt       mybox.SearchOptions
	startDate string
	endDate   string
	format    cmd.ListFormat
)

func init() {
	cmd.Root.AddCommand(commandDefinition)
	flags := commandDefinition.Flags()
	flags.StringVarP(&opt.FileOption, "type", "", "all", "Kind of file: all, image, doc, video, audio or zip")
	flags.Int64VarP(&opt.MinSize, "min-size", "", 0, "Only find files at least this many bytes")
	flags.Int64VarP(&opt.MaxSize, "max-size", "", 0, "Only find files at most this many bytes")
	flags.StringVarP(&startDate, "since", "", "", "Only find files uploaded on or after this day, YYYY-MM-DD")
	flags.StringVarP(&endDate, "until", "", "", "Only find files uploaded on or before this day, YYYY-MM-DD")
	flags.BoolVarP(&format.Human, "human-readable", "", false, "Print sizes in human readable format")
	flags.BoolVarP(&format.Keys, "keys", "", false, "Print the resource keys")
}

var commandDefinition = &cobra.Command{
	Use:   "search keyword [path]",
	Short: `Search for files and folders matching keyword.`,
	Long: `
Searches the folder at path, everywhere if not given, for items whose
names match keyword. The output is the same as for ls.
`,
	Run: func(command *cobra.Command, args []string) {
		cmd.CheckArgs(1, 2, command, args)
		cmd.Run(command, func(ctx context.Context) error {
			so := opt
			var err error
			if so.StartDate, err = cmd.ParseDate(startDate); err != nil {
				return err
			}
			if so.EndDate, err = cmd.ParseDate(endDate); err != nil {
				return err
			}
			c, err := cmd.NewClient(ctx)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				if so.ResourceKey, err = c.ResolvePath(ctx, args[1]); err != nil {
					return err
				}
			}
			items, err := c.Search(ctx, args[0], so)
			if err != nil {
				return err
			}
			return cmd.PrintItems(os.Stdout, items, format)
		})
	},
}
