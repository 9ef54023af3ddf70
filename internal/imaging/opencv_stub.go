//go:build !opencv

package imaging

import (
	"context"
	"image"
)

// OpenCVAvailable reports whether the OpenCV preprocessor was compiled in.
const OpenCVAvailable = false

// OpenCV is a placeholder when OpenCV support is not compiled in.
type OpenCV struct{}

// NewOpenCV returns ErrOpenCVUnavailable.
func NewOpenCV() (*OpenCV, error) {
	return nil, ErrOpenCVUnavailable
}

// Preprocess returns ErrOpenCVUnavailable.
func (o *OpenCV) Preprocess(ctx context.Context, path string) (*image.Gray, error) {
	return nil, ErrOpenCVUnavailable
}
