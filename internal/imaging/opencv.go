//go:build opencv

package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCVAvailable reports whether the OpenCV preprocessor was compiled in.
const OpenCVAvailable = true

// OpenCV is a Preprocessor that runs the same steps as Pipeline through
// OpenCV. Otsu's level and the blur kernel are chosen by OpenCV itself.
type OpenCV struct{}

// NewOpenCV returns an OpenCV preprocessor.
func NewOpenCV() (*OpenCV, error) {
	return &OpenCV{}, nil
}

// Preprocess reads path with OpenCV and returns the binarized, 2x upscaled
// bitmap.
func (o *OpenCV) Preprocess(ctx context.Context, path string) (*image.Gray, error) {
	src := gocv.IMRead(path, gocv.IMReadColor)
	defer src.Close()
	if src.Empty() {
		return nil, &DecodeError{Path: path, Err: errors.New("opencv could not read the file")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(gray, &scaled, image.Point{}, UpscaleFactor, UpscaleFactor, gocv.InterpolationCubic)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(scaled, &blurred, image.Pt(BlurKernelSize, BlurKernelSize), 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blurred, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	out, err := binary.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert opencv result: %w", err)
	}
	return toGray(out), nil
}
