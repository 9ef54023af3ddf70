//go:build !gosseract

package ocr

import (
	"context"
	"image"
)

// LibraryAvailable reports whether the gosseract backend is compiled in.
const LibraryAvailable = false

// LibraryEngine is a placeholder in builds without the "gosseract" tag.
type LibraryEngine struct{}

// NewLibraryEngine returns ErrLibraryUnavailable.
func NewLibraryEngine(opts Options) (*LibraryEngine, error) {
	return nil, ErrLibraryUnavailable
}

// Name returns BackendLibrary.
func (e *LibraryEngine) Name() string {
	return BackendLibrary
}

// Recognize returns ErrLibraryUnavailable wrapped in a *RecognitionError.
func (e *LibraryEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	return "", &RecognitionError{Backend: BackendLibrary, Err: ErrLibraryUnavailable}
}

// Info reports the backend as unavailable.
func (e *LibraryEngine) Info(ctx context.Context) Info {
	return Info{
		Backend: BackendLibrary,
		Error:   ErrLibraryUnavailable.Error(),
	}
}

// Close is a no-op.
func (e *LibraryEngine) Close() error {
	return nil
}
