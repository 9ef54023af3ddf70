// Package ocr recognizes text in preprocessed bitmaps using Tesseract.
//
// Two backends implement the Engine interface:
//
//   - exec: runs the tesseract executable, feeding the bitmap as PNG on
//     stdin and reading text from stdout. Cancelling the context kills the
//     process. This is the default backend and needs no cgo.
//   - library: links libtesseract through gosseract/v2. Only compiled in
//     with the "gosseract" build tag, which needs cgo and the libtesseract
//     headers; otherwise NewLibraryEngine returns ErrLibraryUnavailable.
//
// # Prerequisites
//
// Tesseract and the language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-tur
//   - macOS: brew install tesseract tesseract-lang
//   - Windows: Download from https://github.com/UB-Mannheim/tesseract/wiki
//
// # Fixed Configuration
//
// Recognition always runs with one language, engine mode and page
// segmentation mode (see DefaultOptions). The defaults are Turkish ("tur"),
// OEM 3 (default engine, LSTM when available) and PSM 3 (fully automatic
// page segmentation without orientation detection).
//
// # Locating the Executable
//
// Locate resolves the tesseract executable from an explicit path, then the
// PATH search, then well-known install locations for the current OS. A
// missing executable is reported as ErrEngineNotFound so callers can fail at
// startup rather than on the first request.
//
// # Error Handling
//
// Every failure inside Recognize, including a missing language pack, an
// engine crash and cancellation, is returned as a *RecognitionError. The
// cause stays available through errors.Is and errors.As.
package ocr
