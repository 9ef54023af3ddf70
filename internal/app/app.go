package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ocrpad/internal/logging"
	"github.com/ironsheep/ocrpad/internal/style"
)

var (
	// ErrBusy is returned by Recognize while another request is in flight.
	ErrBusy = errors.New("a recognition request is already running")

	// ErrNoSelection is returned when a file dialog was dismissed.
	ErrNoSelection = errors.New("no file selected")

	// ErrNothingToCopy is returned by Copy when the buffer is blank.
	ErrNothingToCopy = errors.New("nothing to copy")

	// ErrNoClipboard is returned by Copy when the Controller has no Clipboard.
	ErrNoClipboard = errors.New("no clipboard available")

	// ErrNothingToSave is returned by Save and PrepareSave when the buffer is blank.
	ErrNothingToSave = errors.New("nothing to save")

	// ErrInvalidFontSize is returned by SetFontSize for sizes not in FontSizes.
	ErrInvalidFontSize = errors.New("unsupported font size")
)

// User-facing notification texts.
const (
	MsgRecognized    = "Text recognized successfully."
	MsgReadFailed    = "Something went wrong. The image could not be read."
	MsgTimedOut      = "Recognition took too long and was stopped."
	MsgCanceled      = "Recognition canceled."
	MsgBusy          = "Recognition is already running."
	MsgCopied        = "Text copied to clipboard."
	MsgNothingToCopy = "There is no text to copy."
	MsgNoClipboard   = "The clipboard is not available."
	MsgSaved         = "Text saved successfully."
	MsgNothingToSave = "There is no text to save."
	MsgSaveFailed    = "The file could not be saved."
	MsgCleared       = "Text cleared."
)

// FontSizes lists the selectable text sizes.
var FontSizes = []int{12, 14, 16, 18, 20, 22, 24}

// DefaultFontSize is the initial text size.
const DefaultFontSize = 18

// SaveExtension is appended to save paths that have no extension.
const SaveExtension = ".txt"

// Progress is the state of the progress indicator.
type Progress int

const (
	// Idle: nothing running, no result shown.
	Idle Progress = iota
	// Running: a request is in flight. The indicator is indeterminate.
	Running
	// Complete: the last request succeeded.
	Complete
)

func (p Progress) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("Progress(%d)", int(p))
	}
}

// Toast is a transient notification.
type Toast struct {
	Kind    style.ToastKind
	Message string
}

// View is the front end driven by a Controller. All calls happen on the
// UI thread.
type View interface {
	// SetText replaces the whole display buffer widget.
	SetText(text string)
	SetProgress(p Progress)
	Notify(t Toast)
	// ApplyStyle restyles every widget from the palette and font size.
	ApplyStyle(p style.Palette, fontSize int)
}

// Clipboard receives copied text.
type Clipboard interface {
	SetContent(text string)
}

// Recognizer turns an image path into text. *pipeline.Pipeline satisfies it.
type Recognizer interface {
	Run(ctx context.Context, path string) (string, error)
}

// Dispatcher runs fn on the UI thread.
type Dispatcher func(fn func())

// Immediate runs fn on the calling goroutine. For tests and headless use.
func Immediate(fn func()) { fn() }

// Options configures a Controller.
type Options struct {
	// Timeout bounds each request. Zero means no limit.
	Timeout time.Duration

	// Dispatch delivers results to the UI thread. Nil means Immediate.
	Dispatch Dispatcher

	// Clipboard receives Copy output.
	Clipboard Clipboard

	// Theme is the initial theme.
	Theme style.Theme

	Log logrus.FieldLogger
}

// Request is a handle on one recognition run.
type Request struct {
	// Path is the source image.
	Path string

	cancel   context.CancelFunc
	done     chan struct{}
	canceled bool
	text     string
	err      error
}

// Done is closed once the result has been applied to the Controller.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Text returns the recognized text. Valid after Done is closed.
func (r *Request) Text() string {
	return r.text
}

// Err returns the failure, if any. Valid after Done is closed.
func (r *Request) Err() error {
	return r.err
}

// Controller owns the application state.
type Controller struct {
	recognizer Recognizer
	view       View
	clipboard  Clipboard
	dispatch   Dispatcher
	timeout    time.Duration
	log        logrus.FieldLogger

	mu       sync.Mutex
	text     string
	progress Progress
	theme    style.Theme
	fontSize int
	current  *Request
	wg       sync.WaitGroup
}

// NewController returns a Controller driving view. Call Attach once the
// view is ready to paint the initial state.
func NewController(recognizer Recognizer, view View, opts Options) *Controller {
	if opts.Dispatch == nil {
		opts.Dispatch = Immediate
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	return &Controller{
		recognizer: recognizer,
		view:       view,
		clipboard:  opts.Clipboard,
		dispatch:   opts.Dispatch,
		timeout:    opts.Timeout,
		log:        logging.Named(opts.Log, "app"),
		theme:      opts.Theme,
		fontSize:   DefaultFontSize,
	}
}

// Attach pushes the current state to the view.
func (c *Controller) Attach() {
	c.mu.Lock()
	text, progress := c.text, c.progress
	palette, size := style.Lookup(c.theme), c.fontSize
	c.mu.Unlock()

	c.view.ApplyStyle(palette, size)
	c.view.SetText(text)
	c.view.SetProgress(progress)
}

// Recognize starts recognition of the image at path.
//
// An empty path means the picker was dismissed: nothing happens and
// ErrNoSelection is returned. While a request is in flight ErrBusy is
// returned, a warning is shown, and the running request is left alone.
func (c *Controller) Recognize(path string) (*Request, error) {
	if path == "" {
		return nil, ErrNoSelection
	}

	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		c.log.WithField("path", path).Debug("request rejected, busy")
		c.view.Notify(Toast{Kind: style.ToastWarning, Message: MsgBusy})
		return nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	if c.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, c.timeout)
		cancelParent := cancel
		cancel = func() {
			cancelTimeout()
			cancelParent()
		}
	}

	req := &Request{Path: path, cancel: cancel, done: make(chan struct{})}
	c.current = req
	c.progress = Running
	c.wg.Add(1)
	c.mu.Unlock()

	c.view.SetProgress(Running)
	go c.run(ctx, req)
	return req, nil
}

func (c *Controller) run(ctx context.Context, req *Request) {
	text, err := c.recognizer.Run(ctx, req.Path)
	c.dispatch(func() {
		c.finish(req, text, err)
	})
}

// finish applies a request's outcome. Runs on the UI thread.
func (c *Controller) finish(req *Request, text string, err error) {
	defer c.wg.Done()
	req.cancel()

	c.mu.Lock()
	if req.canceled && err == nil {
		err = context.Canceled
	}
	c.current = nil

	var toast Toast
	switch {
	case err == nil:
		c.text = text
		c.progress = Complete
		toast = Toast{Kind: style.ToastSuccess, Message: MsgRecognized}
	case errors.Is(err, context.Canceled):
		c.progress = Idle
		toast = Toast{Kind: style.ToastInfo, Message: MsgCanceled}
	case errors.Is(err, context.DeadlineExceeded):
		c.progress = Idle
		toast = Toast{Kind: style.ToastError, Message: MsgTimedOut}
	default:
		c.progress = Idle
		toast = Toast{Kind: style.ToastError, Message: MsgReadFailed}
	}
	progress := c.progress
	req.text, req.err = text, err
	c.mu.Unlock()

	if err != nil {
		c.log.WithField("path", req.Path).WithError(err).Warn("recognition did not complete")
	} else {
		c.view.SetText(text)
	}
	c.view.SetProgress(progress)
	c.view.Notify(toast)
	close(req.done)
}

// Cancel stops the in-flight request, if any. The request still finishes
// through the normal path, leaving the buffer untouched.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	req := c.current
	if req != nil {
		req.canceled = true
	}
	c.mu.Unlock()

	if req == nil {
		return false
	}
	req.cancel()
	return true
}

// Wait blocks until no request is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Copy puts the trimmed buffer on the clipboard.
func (c *Controller) Copy() error {
	text := c.trimmed()
	if text == "" {
		c.view.Notify(Toast{Kind: style.ToastWarning, Message: MsgNothingToCopy})
		return ErrNothingToCopy
	}

	if c.clipboard == nil {
		c.view.Notify(Toast{Kind: style.ToastError, Message: MsgNoClipboard})
		return ErrNoClipboard
	}

	c.clipboard.SetContent(text)
	c.view.Notify(Toast{Kind: style.ToastSuccess, Message: MsgCopied})
	return nil
}

// PrepareSave reports whether there is anything to save. The front end
// calls it before showing the save dialog.
func (c *Controller) PrepareSave() error {
	if c.trimmed() == "" {
		c.view.Notify(Toast{Kind: style.ToastWarning, Message: MsgNothingToSave})
		return ErrNothingToSave
	}
	return nil
}

// Save writes the trimmed buffer to path as UTF-8 and returns the path
// actually written. SaveExtension is appended when path has none.
//
// A blank buffer creates no file and returns ErrNothingToSave. An empty
// path (dialog dismissed) returns ErrNoSelection without notifying.
func (c *Controller) Save(path string) (string, error) {
	if err := c.PrepareSave(); err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrNoSelection
	}
	path = WithSaveExtension(path)

	if err := os.WriteFile(path, []byte(c.trimmed()), 0644); err != nil {
		c.log.WithField("path", path).WithError(err).Warn("save failed")
		c.view.Notify(Toast{Kind: style.ToastError, Message: MsgSaveFailed})
		return "", fmt.Errorf("failed to save text: %w", err)
	}

	c.view.Notify(Toast{Kind: style.ToastSuccess, Message: MsgSaved})
	return path, nil
}

// WithSaveExtension appends SaveExtension when path has no extension.
func WithSaveExtension(path string) string {
	if filepath.Ext(path) == "" {
		return path + SaveExtension
	}
	return path
}

// Clear empties the buffer. The front end asks for confirmation first.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.text = ""
	c.mu.Unlock()

	c.view.SetText("")
	c.view.Notify(Toast{Kind: style.ToastSuccess, Message: MsgCleared})
}

// SetText records a user edit. The view is not refreshed.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

// ToggleTheme switches between Light and Dark and restyles the view.
func (c *Controller) ToggleTheme() style.Theme {
	c.mu.Lock()
	c.theme = c.theme.Toggle()
	theme, size := c.theme, c.fontSize
	c.mu.Unlock()

	c.view.ApplyStyle(style.Lookup(theme), size)
	return theme
}

// SetFontSize changes the text size. size must be one of FontSizes.
func (c *Controller) SetFontSize(size int) error {
	if !validFontSize(size) {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, size)
	}

	c.mu.Lock()
	c.fontSize = size
	theme := c.theme
	c.mu.Unlock()

	c.view.ApplyStyle(style.Lookup(theme), size)
	return nil
}

func validFontSize(size int) bool {
	for _, s := range FontSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Text returns the display buffer.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Controller) trimmed() string {
	return strings.TrimSpace(c.Text())
}

// Progress returns the progress state.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// Theme returns the current theme.
func (c *Controller) Theme() style.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// FontSize returns the current text size.
func (c *Controller) FontSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fontSize
}

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}
