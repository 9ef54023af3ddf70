package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ironsheep/ocrpad/internal/imaging"
)

// ExecEngine recognizes text by running the tesseract executable.
//
// Each call starts a fresh process, so an ExecEngine is safe for concurrent
// use and holds nothing that needs releasing.
type ExecEngine struct {
	path string
	opts Options
}

// NewExecEngine returns an engine that runs the executable at path.
// The path is not checked; use Locate and Probe first.
func NewExecEngine(path string, opts Options) *ExecEngine {
	return &ExecEngine{path: path, opts: opts}
}

// Name returns BackendExec.
func (e *ExecEngine) Name() string {
	return BackendExec
}

// Path returns the executable path.
func (e *ExecEngine) Path() string {
	return e.path
}

// Args returns the command-line arguments passed to tesseract, excluding
// the executable itself.
func (e *ExecEngine) Args() []string {
	args := []string{
		"stdin", "stdout",
		"-l", e.opts.Language,
		"--oem", strconv.Itoa(e.opts.EngineMode),
		"--psm", strconv.Itoa(e.opts.PageSegMode),
	}
	if e.opts.TessdataPrefix != "" {
		args = append(args, "--tessdata-dir", e.opts.TessdataPrefix)
	}
	return args
}

// Recognize encodes img as PNG, pipes it to tesseract and returns stdout.
//
// A non-zero exit status is reported with the first line of stderr, which
// is where tesseract explains a missing language pack.
func (e *ExecEngine) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RecognitionError{Backend: BackendExec, Err: err}
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", &RecognitionError{Backend: BackendExec, Err: err}
	}

	cmd := exec.CommandContext(ctx, e.path, e.Args()...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &RecognitionError{Backend: BackendExec, Err: ctxErr}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := firstLine(stderr.String()); msg != "" {
				err = fmt.Errorf("%w: %s", err, msg)
			}
		}
		return "", &RecognitionError{Backend: BackendExec, Err: err}
	}

	return stdout.String(), nil
}

// Info reports the executable path and version.
func (e *ExecEngine) Info(ctx context.Context) Info {
	info := Info{
		Backend:      BackendExec,
		Executable:   e.path,
		TessdataPath: e.opts.TessdataPrefix,
		Options:      e.opts,
	}

	version, err := Probe(ctx, e.path)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	info.Version = version
	return info
}

// Close is a no-op.
func (e *ExecEngine) Close() error {
	return nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
