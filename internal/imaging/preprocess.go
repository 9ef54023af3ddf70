package imaging

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

const (
	// UpscaleFactor is the linear scale applied before blurring.
	UpscaleFactor = 2

	// BlurKernelSize is the side length of the Gaussian blur kernel.
	BlurKernelSize = 5
)

// ErrOpenCVUnavailable is returned when the OpenCV preprocessor is requested
// but the binary was built without the "opencv" tag.
var ErrOpenCVUnavailable = errors.New("opencv preprocessor not enabled; rebuild with -tags opencv")

// binomial5 is the 1-D Gaussian used for a 5-tap kernel with automatic sigma.
var binomial5 = [BlurKernelSize]float64{1, 4, 6, 4, 1}

// Preprocessor turns a source image path into an OCR-ready bitmap.
type Preprocessor interface {
	Preprocess(ctx context.Context, path string) (*image.Gray, error)
}

// Pipeline is the pure-Go Preprocessor.
type Pipeline struct{}

// NewPipeline returns a ready-to-use Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Preprocess decodes the image at path and runs PreprocessImage on it.
//
// Returns a *DecodeError if the file cannot be decoded, or the context's
// error if ctx is done before the transform starts.
func (p *Pipeline) Preprocess(ctx context.Context, path string) (*image.Gray, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return PreprocessImage(img), nil
}

// PreprocessImage applies grayscale, 2x cubic upscale, 5x5 Gaussian blur and
// Otsu binarization to an in-memory image.
//
// The output bounds are (0,0)-(2w,2h) where w and h are the source
// dimensions, and every pixel is 0 or 255.
func PreprocessImage(img image.Image) *image.Gray {
	gray := Grayscale(img)
	scaled := Upscale(gray, UpscaleFactor)
	blurred := GaussianBlur(scaled)
	return Binarize(blurred)
}

// Grayscale converts img to a single-channel image using BT.601 luma weights.
func Grayscale(img image.Image) *image.Gray {
	return toGray(imaging.Grayscale(img))
}

// Upscale enlarges a grayscale image by factor on both axes using
// Catmull-Rom cubic interpolation.
func Upscale(img *image.Gray, factor int) *image.Gray {
	b := img.Bounds()
	return toGray(imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.CatmullRom))
}

// GaussianBlur smooths img with the fixed 5x5 binomial kernel. Edges are
// handled by clamping to the nearest pixel.
func GaussianBlur(img *image.Gray) *image.Gray {
	k := convolution.NewKernel(BlurKernelSize, 1)
	var sum float64
	for _, w := range binomial5 {
		sum += w
	}
	for i, w := range binomial5 {
		k.Matrix[i] = w / sum
	}

	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	out := convolution.Convolve(img, k, opts)
	out = convolution.Convolve(out, k.Transposed(), opts)
	return toGray(out)
}

// Binarize thresholds img at its Otsu level: pixels strictly above the
// level become 255, all others 0.
func Binarize(img *image.Gray) *image.Gray {
	level := OtsuLevel(img)
	return toGray(imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := uint8(0)
		if c.R > level {
			v = 255
		}
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	}))
}

// toGray copies an image whose color channels are already equal into a new
// *image.Gray anchored at the origin. For 8-bit RGBA layouts the red channel
// is taken as-is so that alpha never darkens the result.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(rebase(b))
	switch src := img.(type) {
	case *image.Gray:
		if b.Min == (image.Point{}) {
			return src
		}
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	case *image.NRGBA:
		copyRed(dst, src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y))
	case *image.RGBA:
		copyRed(dst, src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y))
	default:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

func copyRed(dst *image.Gray, pix []uint8, stride, offset int) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		row := offset + y*stride
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = pix[row+x*4]
		}
	}
}

func rebase(r image.Rectangle) image.Rectangle {
	return image.Rect(0, 0, r.Dx(), r.Dy())
}
