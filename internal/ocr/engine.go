package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Backend names accepted by NewEngine.
const (
	BackendExec    = "exec"
	BackendLibrary = "library"
)

// Fixed recognition settings.
const (
	DefaultLanguage    = "tur"
	DefaultEngineMode  = 3 // OEM_DEFAULT: LSTM when available
	DefaultPageSegMode = 3 // PSM_AUTO: fully automatic, no OSD
)

var (
	// ErrEngineNotFound is returned when no tesseract executable can be located.
	ErrEngineNotFound = errors.New("tesseract executable not found")

	// ErrLibraryUnavailable is returned when the library backend is requested
	// in a build without the "gosseract" tag.
	ErrLibraryUnavailable = errors.New("tesseract library backend not compiled in; rebuild with -tags gosseract")
)

// Engine recognizes text in a bitmap.
type Engine interface {
	// Name returns the backend name (BackendExec or BackendLibrary).
	Name() string

	// Recognize returns the raw text found in img, embedded newlines included.
	// Any failure is reported as a *RecognitionError.
	Recognize(ctx context.Context, img image.Image) (string, error)

	// Info describes the engine for diagnostics.
	Info(ctx context.Context) Info

	// Close releases engine resources.
	Close() error
}

// Options is the recognition configuration passed to every call.
type Options struct {
	// Language is the Tesseract language code, e.g. "tur" or "eng+tur".
	Language string `json:"language"`

	// EngineMode is Tesseract's OCR engine mode (0-3).
	EngineMode int `json:"engine_mode"`

	// PageSegMode is Tesseract's page segmentation mode (0-13).
	PageSegMode int `json:"page_seg_mode"`

	// TessdataPrefix overrides the directory holding *.traineddata files.
	// Empty means the engine's built-in default.
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
}

// DefaultOptions returns the fixed recognition configuration.
func DefaultOptions() Options {
	return Options{
		Language:    DefaultLanguage,
		EngineMode:  DefaultEngineMode,
		PageSegMode: DefaultPageSegMode,
	}
}

// Validate checks that the options are within Tesseract's accepted ranges.
func (o Options) Validate() error {
	if o.Language == "" {
		return errors.New("language must not be empty")
	}
	if o.EngineMode < 0 || o.EngineMode > 3 {
		return fmt.Errorf("engine mode %d out of range 0-3", o.EngineMode)
	}
	if o.PageSegMode < 0 || o.PageSegMode > 13 {
		return fmt.Errorf("page segmentation mode %d out of range 0-13", o.PageSegMode)
	}
	return nil
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available    bool    `json:"available"`
	Backend      string  `json:"backend"`
	Version      string  `json:"version,omitempty"`
	Executable   string  `json:"executable,omitempty"`
	TessdataPath string  `json:"tessdata_path,omitempty"`
	Options      Options `json:"options"`
	Error        string  `json:"error,omitempty"`
}

// RecognitionError reports that the OCR engine failed for any reason.
type RecognitionError struct {
	// Backend is the name of the engine that failed.
	Backend string

	// Err is the underlying cause.
	Err error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognition failed (%s): %v", e.Backend, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// NewEngine builds the engine for backend.
//
// For BackendExec the executable is resolved with Locate and checked with
// Probe, so a missing or broken installation fails here rather than on the
// first recognition. An empty backend selects BackendExec.
func NewEngine(ctx context.Context, backend, executable string, opts Options) (Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ocr options: %w", err)
	}

	switch backend {
	case BackendExec, "":
		path, err := Locate(executable)
		if err != nil {
			return nil, err
		}
		if _, err := Probe(ctx, path); err != nil {
			return nil, err
		}
		return NewExecEngine(path, opts), nil

	case BackendLibrary:
		engine, err := NewLibraryEngine(opts)
		if err != nil {
			return nil, err
		}
		return engine, nil

	default:
		return nil, fmt.Errorf("unknown ocr backend %q", backend)
	}
}
