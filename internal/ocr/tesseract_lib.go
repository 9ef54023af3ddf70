//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ocrpad/internal/imaging"
)

// LibraryAvailable reports whether the gosseract backend is compiled in.
const LibraryAvailable = true

// LibraryEngine recognizes text through libtesseract via gosseract.
//
// A new client is created for every call. gosseract has no engine-mode
// setter; its clients initialize with OEM_DEFAULT, which matches
// DefaultEngineMode.
type LibraryEngine struct {
	opts          Options
	clientFactory func() *gosseract.Client
}

// NewLibraryEngine returns a gosseract-backed engine.
func NewLibraryEngine(opts Options) (*LibraryEngine, error) {
	return &LibraryEngine{
		opts:          opts,
		clientFactory: gosseract.NewClient,
	}, nil
}

// Name returns BackendLibrary.
func (e *LibraryEngine) Name() string {
	return BackendLibrary
}

type libraryResult struct {
	text string
	err  error
}

// Recognize runs OCR on img.
//
// libtesseract cannot be interrupted, so on cancellation Recognize returns
// immediately and the worker goroutine finishes in the background, its
// result discarded.
func (e *LibraryEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RecognitionError{Backend: BackendLibrary, Err: err}
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", &RecognitionError{Backend: BackendLibrary, Err: err}
	}

	done := make(chan libraryResult, 1)
	go func() {
		text, err := e.recognize(data)
		done <- libraryResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &RecognitionError{Backend: BackendLibrary, Err: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			return "", &RecognitionError{Backend: BackendLibrary, Err: res.err}
		}
		return res.text, nil
	}
}

func (e *LibraryEngine) recognize(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tesseract panicked: %v", r)
		}
	}()

	client := e.clientFactory()
	defer client.Close()

	if e.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.opts.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(e.opts.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(e.opts.PageSegMode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err = client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Info reports the linked libtesseract version.
func (e *LibraryEngine) Info(ctx context.Context) Info {
	info := Info{
		Backend:      BackendLibrary,
		TessdataPath: e.opts.TessdataPrefix,
		Options:      e.opts,
	}

	client := e.clientFactory()
	defer client.Close()

	info.Version = client.Version()
	if info.Version == "" {
		info.Error = "libtesseract reported no version"
		return info
	}
	info.Available = true
	return info
}

// Close is a no-op; clients are released after each call.
func (e *LibraryEngine) Close() error {
	return nil
}
