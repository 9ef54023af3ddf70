package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// SupportedExtensions lists the file extensions offered when picking a source image.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// DecodeError reports that a source image could not be read or decoded.
//
// It wraps the underlying cause, which is typically an *fs.PathError for
// missing or unreadable files, or image.ErrFormat for unsupported content.
type DecodeError struct {
	// Path is the source path as given by the caller.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsSupported reports whether path has one of the SupportedExtensions.
// The comparison is case-insensitive.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Load opens and decodes the image at path.
//
// Format detection is based on file contents, not the extension, so a PNG
// saved as ".jpg" still decodes. EXIF orientation is not applied.
//
// Returns:
//   - image.Image: The decoded image. The concrete type depends on the format.
//   - error: A *DecodeError if the file cannot be opened or decoded.
func Load(path string) (image.Image, error) {
	if path == "" {
		return nil, &DecodeError{Path: path, Err: errors.New("empty path")}
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &DecodeError{Path: path, Err: errors.New("image has no pixels")}
	}

	return img, nil
}
