package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/filekind"
	"github.com/meigma/filekind/internal/filesink"
)

type extractFlags struct {
	outDir        string
	ext           string
	workers       int
	overwrite     bool
	preserveTimes bool
}

func newExtractCmd(a *app) *cobra.Command {
	var f extractFlags
	cmd := &cobra.Command{
		Use:   "extract <archive.zip>",
		Short: "Extract the file entries of a ZIP archive into a directory",
		Long: `Extract writes every file entry, or only those with the --ext extension,
into the output directory under its repaired base name. Folder structure is
flattened and clashing names get a numeric suffix. Existing files are kept
unless --overwrite is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				f.workers = a.cfg.Extract.Workers
			}
			if f.workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", f.workers)
			}
			return a.extract(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "output directory")
	cmd.Flags().StringVar(&f.ext, "ext", "", "only extract entries with this extension (psd, json, csv or zip)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 4, "number of concurrent file writers")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "replace existing files")
	cmd.Flags().BoolVar(&f.preserveTimes, "preserve-times", false, "set modification times from the archive")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) extract(cmd *cobra.Command, path string, f extractFlags) error {
	zf, raw, err := a.openZip(path)
	if err != nil {
		return err
	}
	defer raw.Close()

	files, report, err := extractFiles(zf, f.ext)
	if err != nil {
		return err
	}
	sink, err := filesink.New(f.outDir,
		filesink.WithOverwrite(f.overwrite),
		filesink.WithPreserveTimes(f.preserveTimes),
	)
	if err != nil {
		return err
	}

	names := uniqueNames(files)
	var existing atomic.Int32
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(f.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := sink.Write(names[i], report.Extracted[i].Modified, file.Reader())
			if errors.Is(err, filesink.ErrExists) {
				existing.Add(1)
				a.logger.Info("file exists, not overwritten", "name", names[i])
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, s := range report.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped\t%s\t%v\n", s.Path, s.Err)
	}
	written := len(files) - int(existing.Load())
	fmt.Fprintf(cmd.OutOrStdout(), "extracted %d files to %s (%d skipped, %d existing)\n",
		written, sink.Dir(), len(report.Skipped), existing.Load())
	return nil
}

func extractFiles(zf *filekind.ZipFile, ext string) ([]*filekind.RawFile, *filekind.ExtractReport, error) {
	if ext == "" {
		return zf.ExtractAll()
	}
	tag, err := filekind.ParseTag(ext)
	if err != nil {
		return nil, nil, fmt.Errorf("--ext: %w", err)
	}
	typed, report, err := zf.ExtractByExtension(tag)
	if err != nil {
		return nil, report, err
	}
	files := make([]*filekind.RawFile, 0, len(typed))
	for _, tf := range typed {
		files = append(files, tf.Raw())
	}
	return files, report, nil
}

// uniqueNames assigns each file a distinct output name, ignoring case.
func uniqueNames(files []*filekind.RawFile) []string {
	taken := make(map[string]bool, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		name := f.Name()
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for n := 1; taken[strings.ToLower(name)]; n++ {
			name = stem + "-" + strconv.Itoa(n) + ext
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}
