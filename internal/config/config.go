// Package config holds the runtime settings shared by every subcommand.
//
// Values come from command-line flags, falling back to Default. The only
// environment variable read is OCRPAD_LOG_LEVEL. Nothing is persisted.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/ironsheep/ocrpad/internal/logging"
	"github.com/ironsheep/ocrpad/internal/ocr"
)

// Preprocessor names.
const (
	PreprocessorGo     = "go"
	PreprocessorOpenCV = "opencv"
)

// EnvLogLevel sets the default log level, like IMAGE_MCP_LOG_LEVEL did for
// the image tools server.
const EnvLogLevel = "OCRPAD_LOG_LEVEL"

// Config is the resolved runtime configuration.
type Config struct {
	// Backend selects the OCR engine: ocr.BackendExec or ocr.BackendLibrary.
	Backend string

	// Tesseract is an explicit path to the tesseract executable.
	// Empty means search PATH and the well-known install locations.
	Tesseract string

	// Tessdata overrides the directory holding *.traineddata files.
	Tessdata string

	Language    string
	PageSegMode int
	EngineMode  int

	// Preprocessor selects PreprocessorGo or PreprocessorOpenCV.
	Preprocessor string

	// Timeout bounds a single recognition request. Zero means no limit.
	Timeout time.Duration

	LogLevel string
}

// Default returns the built-in configuration.
func Default() Config {
	opts := ocr.DefaultOptions()
	return Config{
		Backend:      ocr.BackendExec,
		Language:     opts.Language,
		PageSegMode:  opts.PageSegMode,
		EngineMode:   opts.EngineMode,
		Preprocessor: PreprocessorGo,
		LogLevel:     logging.DefaultLevel,
	}
}

// ApplyEnv takes the log level from EnvLogLevel when it is set and
// non-empty. lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// RegisterFlags binds the configuration to fs. The current field values
// become the flag defaults, so call ApplyEnv first.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Backend, "backend", c.Backend, "OCR backend: exec or library")
	fs.StringVar(&c.Tesseract, "tesseract", c.Tesseract, "path to the tesseract executable (default: search PATH)")
	fs.StringVar(&c.Tessdata, "tessdata", c.Tessdata, "directory containing *.traineddata files")
	fs.StringVar(&c.Language, "lang", c.Language, "Tesseract language code")
	fs.IntVar(&c.PageSegMode, "psm", c.PageSegMode, "Tesseract page segmentation mode (0-13)")
	fs.IntVar(&c.EngineMode, "oem", c.EngineMode, "Tesseract OCR engine mode (0-3)")
	fs.StringVar(&c.Preprocessor, "preprocessor", c.Preprocessor, "image preprocessor: go or opencv")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "per-request recognition timeout, 0 for none")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// Validate rejects settings the engine or preprocessor would refuse.
func (c Config) Validate() error {
	switch c.Backend {
	case ocr.BackendExec, ocr.BackendLibrary:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, ocr.BackendExec, ocr.BackendLibrary)
	}

	switch c.Preprocessor {
	case PreprocessorGo, PreprocessorOpenCV:
	default:
		return fmt.Errorf("unknown preprocessor %q (want %s or %s)", c.Preprocessor, PreprocessorGo, PreprocessorOpenCV)
	}

	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return c.OCROptions().Validate()
}

// OCROptions returns the recognition options described by c.
func (c Config) OCROptions() ocr.Options {
	return ocr.Options{
		Language:       c.Language,
		EngineMode:     c.EngineMode,
		PageSegMode:    c.PageSegMode,
		TessdataPrefix: c.Tessdata,
	}
}

// Parse resolves a Config for one subcommand: defaults, then EnvLogLevel,
// then the flags in args. Remaining positional arguments are returned.
func Parse(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (Config, []string, error) {
	cfg := Default()
	cfg.ApplyEnv(lookup)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, fs.Args(), nil
}
