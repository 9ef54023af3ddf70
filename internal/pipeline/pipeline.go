// Package pipeline chains preprocessing and recognition for one image.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ocrpad/internal/config"
	"github.com/ironsheep/ocrpad/internal/imaging"
	"github.com/ironsheep/ocrpad/internal/logging"
	"github.com/ironsheep/ocrpad/internal/ocr"
)

// FailureKind classifies a Run error.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureDecode
	FailureRecognition
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureDecode:
		return "decode"
	case FailureRecognition:
		return "recognition"
	case FailureCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Classify maps an error returned by Run to its FailureKind.
// Cancellation and deadline expiry take precedence over the wrapper type.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureCanceled
	}
	var decodeErr *imaging.DecodeError
	if errors.As(err, &decodeErr) {
		return FailureDecode
	}
	return FailureRecognition
}

// Pipeline turns an image path into recognized text.
type Pipeline struct {
	pre    imaging.Preprocessor
	engine ocr.Engine
	log    logrus.FieldLogger
}

// New returns a Pipeline. A nil log discards diagnostics.
func New(pre imaging.Preprocessor, engine ocr.Engine, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{pre: pre, engine: engine, log: log}
}

// Open builds the preprocessor and engine described by cfg.
//
// An engine that cannot be found or started is reported here, so the
// caller can refuse to start.
func Open(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*Pipeline, error) {
	if log == nil {
		log = logging.Discard()
	}

	var pre imaging.Preprocessor
	switch cfg.Preprocessor {
	case config.PreprocessorOpenCV:
		cv, err := imaging.NewOpenCV()
		if err != nil {
			return nil, err
		}
		pre = cv
	default:
		pre = imaging.NewPipeline()
	}

	engine, err := ocr.NewEngine(ctx, cfg.Backend, cfg.Tesseract, cfg.OCROptions())
	if err != nil {
		return nil, fmt.Errorf("failed to start OCR engine: %w", err)
	}

	return New(pre, engine, logging.Named(log, "pipeline")), nil
}

// Run preprocesses the image at path and recognizes its text.
//
// The returned error is a *imaging.DecodeError when the file cannot be
// read, otherwise a *ocr.RecognitionError. Text is returned unmodified.
func (p *Pipeline) Run(ctx context.Context, path string) (string, error) {
	start := time.Now()
	log := p.log.WithFields(logging.Fields{"path": path, "backend": p.engine.Name()})
	log.Debug("recognition started")

	bitmap, err := p.pre.Preprocess(ctx, path)
	if err != nil {
		var decodeErr *imaging.DecodeError
		if !errors.As(err, &decodeErr) {
			err = &ocr.RecognitionError{Backend: p.engine.Name(), Err: err}
		}
		p.logFailure(log, err, start)
		return "", err
	}

	text, err := p.engine.Recognize(ctx, bitmap)
	if err != nil {
		var recErr *ocr.RecognitionError
		if !errors.As(err, &recErr) {
			err = &ocr.RecognitionError{Backend: p.engine.Name(), Err: err}
		}
		p.logFailure(log, err, start)
		return "", err
	}

	log.WithFields(logging.Fields{
		"duration": time.Since(start).Round(time.Millisecond),
		"chars":    len([]rune(text)),
	}).Info("recognition finished")
	return text, nil
}

func (p *Pipeline) logFailure(log logrus.FieldLogger, err error, start time.Time) {
	entry := log.WithFields(logging.Fields{
		"duration": time.Since(start).Round(time.Millisecond),
		"kind":     Classify(err).String(),
	}).WithError(err)
	if Classify(err) == FailureCanceled {
		entry.Info("recognition canceled")
		return
	}
	entry.Warn("recognition failed")
}

// Preprocess runs only the preprocessing stage.
func (p *Pipeline) Preprocess(ctx context.Context, path string) (*image.Gray, error) {
	return p.pre.Preprocess(ctx, path)
}

// Info describes the underlying engine.
func (p *Pipeline) Info(ctx context.Context) ocr.Info {
	return p.engine.Info(ctx)
}

// Close releases the engine.
func (p *Pipeline) Close() error {
	return p.engine.Close()
}
