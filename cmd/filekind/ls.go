package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	var names, long bool
	cmd := &cobra.Command{
		Use:   "ls <archive.zip>",
		Short: "List the file entries of a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zf, raw, err := a.openZip(args[0])
			if err != nil {
				return err
			}
			defer raw.Close()

			out := cmd.OutOrStdout()
			if long {
				entries, err := zf.Entries()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, e := range entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Size, e.Modified.UTC().Format(time.RFC3339), e.Path)
				}
				return tw.Flush()
			}

			list := zf.ListEntryPaths
			if names {
				list = zf.ListEntryNames
			}
			for _, p := range list() {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&names, "names", false, "print base names instead of full paths")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "print size and modification time")
	return cmd
}
