package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/filekind"
)

func newIdentifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <path>...",
		Short: "Print the detected type of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				tag, err := a.identify(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s\terror: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", path, tag)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d not identified", errPartial, failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) identify(path string) (filekind.Tag, error) {
	raw, err := filekind.OpenRawFile(path)
	if err != nil {
		return "", err
	}
	defer raw.Close()

	tf, err := a.loader.Load(raw)
	if err != nil {
		return "", err
	}
	return tf.Tag(), nil
}
