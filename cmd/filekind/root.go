package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/filekind"
	"github.com/meigma/filekind/internal/config"
)

// app holds state shared by the subcommands. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
	loader *filekind.Loader
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "filekind",
		Short:         "Identify, list and extract PSD, JSON, CSV and ZIP files",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the config file)")

	cmd.AddCommand(
		newIdentifyCmd(a),
		newLsCmd(a),
		newExtractCmd(a),
		newJSONCmd(a),
		newPostCmd(a),
	)
	return cmd
}

func (a *app) setup(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	opts, err := cfg.LoaderOptions(a.logger)
	if err != nil {
		return err
	}
	a.loader = filekind.NewLoader(opts...)
	return nil
}

// openZip opens path and requires it to identify as a ZIP archive.
// The caller closes the returned RawFile.
func (a *app) openZip(path string) (*filekind.ZipFile, *filekind.RawFile, error) {
	raw, err := filekind.OpenRawFile(path)
	if err != nil {
		return nil, nil, err
	}
	tf, err := a.loader.Load(raw)
	if err != nil {
		_ = raw.Close()
		return nil, nil, err
	}
	zf, ok := tf.(*filekind.ZipFile)
	if !ok {
		_ = raw.Close()
		return nil, nil, fmt.Errorf("%s: detected as %s, want zip", path, tf.Tag())
	}
	return zf, raw, nil
}

// openJSON opens path and requires it to identify as JSON.
func (a *app) openJSON(path string) (*filekind.JSONFile, *filekind.RawFile, error) {
	raw, err := filekind.OpenRawFile(path)
	if err != nil {
		return nil, nil, err
	}
	jf, err := a.loader.LoadJSONFromDrop([]*filekind.RawFile{raw})
	if err != nil {
		_ = raw.Close()
		return nil, nil, err
	}
	return jf, raw, nil
}

var errPartial = errors.New("some files failed")
