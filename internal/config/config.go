// Package config loads the filekind CLI configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"gopkg.in/yaml.v3"

	"github.com/meigma/filekind"
	"github.com/meigma/filekind/httpapi"
)

// Config is the CLI configuration.
type Config struct {
	LogLevel string  `yaml:"log_level"`
	JSON     JSON    `yaml:"json"`
	Archive  Archive `yaml:"archive"`
	Extract  Extract `yaml:"extract"`
	API      API     `yaml:"api"`
}

// JSON configures JSON parsing.
type JSON struct {
	MaxSize  int64 `yaml:"max_size"`
	Comments bool  `yaml:"comments"`
}

// Archive configures ZIP extraction.
type Archive struct {
	MaxEntrySize int64  `yaml:"max_entry_size"`
	NameEncoding string `yaml:"name_encoding"`
}

// Extract configures the extract command.
type Extract struct {
	Workers int `yaml:"workers"`
}

// API configures the HTTP client.
type API struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		JSON: JSON{
			MaxSize: filekind.DefaultMaxTextSize,
		},
		Archive: Archive{
			MaxEntrySize: filekind.DefaultMaxEntrySize,
		},
		Extract: Extract{
			Workers: 4,
		},
		API: API{
			BaseURL:    "http://localhost:8010/",
			Timeout:    httpapi.DefaultTimeout,
			MaxRetries: httpapi.DefaultMaxRetries,
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.NameEncoding(); err != nil {
		errs = append(errs, err)
	}
	if c.JSON.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("json.max_size must not be negative, got %d", c.JSON.MaxSize))
	}
	if c.Archive.MaxEntrySize < 0 {
		errs = append(errs, fmt.Errorf("archive.max_entry_size must not be negative, got %d", c.Archive.MaxEntrySize))
	}
	if c.Extract.Workers < 1 {
		errs = append(errs, fmt.Errorf("extract.workers must be at least 1, got %d", c.Extract.Workers))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout))
	}
	if c.API.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("api.max_retries must be at least 1, got %d", c.API.MaxRetries))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NameEncoding returns the legacy encoding for archive entry names, or nil
// when none is configured.
func (c Config) NameEncoding() (encoding.Encoding, error) {
	switch strings.ToLower(c.Archive.NameEncoding) {
	case "":
		return nil, nil
	case "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "euc_jp", "euc-jp":
		return japanese.EUCJP, nil
	case "cp437":
		return charmap.CodePage437, nil
	default:
		return nil, fmt.Errorf("archive.name_encoding: unknown encoding %q", c.Archive.NameEncoding)
	}
}

// LoaderOptions translates the configuration into filekind options.
func (c Config) LoaderOptions(logger *slog.Logger) ([]filekind.Option, error) {
	enc, err := c.NameEncoding()
	if err != nil {
		return nil, err
	}
	opts := []filekind.Option{
		filekind.WithLogger(logger),
		filekind.WithMaxTextSize(c.JSON.MaxSize),
		filekind.WithMaxEntrySize(c.Archive.MaxEntrySize),
		filekind.WithJSONComments(c.JSON.Comments),
	}
	if enc != nil {
		opts = append(opts, filekind.WithLegacyNameEncoding(enc))
	}
	return opts, nil
}

// ClientOptions translates the API section into httpapi options.
func (c Config) ClientOptions(logger *slog.Logger) []httpapi.Option {
	return []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithTimeout(c.API.Timeout),
		httpapi.WithMaxRetries(c.API.MaxRetries),
	}
}
