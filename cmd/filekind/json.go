package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/filekind"
)

func newJSONCmd(a *app) *cobra.Command {
	var maxSize int64
	cmd := &cobra.Command{
		Use:   "json <file.json>",
		Short: "Parse a JSON file and pretty print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jf, raw, err := a.openJSON(args[0])
			if err != nil {
				return err
			}
			defer raw.Close()

			v, err := filekind.LoadAndParse[any](jf, nil, maxSize)
			if err != nil {
				return err
			}
			pretty, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxSize, "max-size", 0, "size limit in bytes (0 uses json.max_size from the config)")
	return cmd
}
