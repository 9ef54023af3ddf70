// Package imaging turns a source image into a bitmap ready for OCR.
//
// The preprocessing pipeline is fixed and runs in this order:
//
//  1. Decode the file (PNG, JPEG, BMP, GIF, TIFF).
//  2. Convert to single-channel grayscale (ITU-R BT.601 luma).
//  3. Upscale by 2 on both axes with cubic (Catmull-Rom) interpolation.
//  4. Blur with a fixed 5x5 Gaussian kernel, [1 4 6 4 1]/16 applied separably.
//  5. Binarize with a global threshold chosen by Otsu's method.
//
// The result is always an *image.Gray whose bounds are exactly twice the
// source dimensions and whose pixels are either 0 or 255.
//
// # Coordinate System
//
// Output images are rebased so that (0,0) is the top-left pixel, regardless
// of the bounds of the decoded source.
//
// # Thread Safety
//
// Pipeline holds no state. Preprocess may be called concurrently on
// different paths.
//
// # Error Handling
//
// Any failure to open or decode the source yields a *DecodeError. No partial
// bitmap is ever returned alongside an error.
//
// # Backends
//
// Pipeline is the pure-Go implementation built on disintegration/imaging and
// bild. Building with the "opencv" tag enables OpenCV, which performs the
// same steps through gocv.
package imaging
