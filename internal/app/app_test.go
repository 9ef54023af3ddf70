package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ironsheep/ocrpad/internal/imaging"
	"github.com/ironsheep/ocrpad/internal/ocr"
	"github.com/ironsheep/ocrpad/internal/style"
)

// fakeView records everything the controller pushes to it.
type fakeView struct {
	mu       sync.Mutex
	text     string
	setTexts int
	progress []Progress
	toasts   []Toast
	palette  style.Palette
	fontSize int
}

func (v *fakeView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
	v.setTexts++
}

func (v *fakeView) SetProgress(p Progress) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progress = append(v.progress, p)
}

func (v *fakeView) Notify(t Toast) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toasts = append(v.toasts, t)
}

func (v *fakeView) ApplyStyle(p style.Palette, fontSize int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.palette = p
	v.fontSize = fontSize
}

func (v *fakeView) lastToast() Toast {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.toasts) == 0 {
		return Toast{}
	}
	return v.toasts[len(v.toasts)-1]
}

func (v *fakeView) toastCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.toasts)
}

type fakeClipboard struct {
	content string
	writes  int
}

func (c *fakeClipboard) SetContent(text string) {
	c.content = text
	c.writes++
}

// fakeRecognizer returns a canned result. When block is set, Run waits for
// release or cancellation.
type fakeRecognizer struct {
	text    string
	err     error
	block   bool
	started chan struct{}
	release chan struct{}
}

func newBlockingRecognizer(text string) *fakeRecognizer {
	return &fakeRecognizer{
		text:    text,
		block:   true,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (f *fakeRecognizer) Run(ctx context.Context, path string) (string, error) {
	if f.block {
		f.started <- struct{}{}
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", &ocr.RecognitionError{Backend: "fake", Err: ctx.Err()}
		}
	}
	return f.text, f.err
}

func newTestController(rec Recognizer) (*Controller, *fakeView, *fakeClipboard) {
	view := &fakeView{}
	clip := &fakeClipboard{}
	c := NewController(rec, view, Options{Clipboard: clip})
	return c, view, clip
}

func waitDone(t *testing.T, req *Request) {
	t.Helper()
	select {
	case <-req.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("request did not finish")
	}
}

func TestRecognize_Success(t *testing.T) {
	c, view, _ := newTestController(&fakeRecognizer{text: "Merhaba Dünya\n"})

	req, err := c.Recognize("scan.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	waitDone(t, req)

	if c.Text() != "Merhaba Dünya\n" {
		t.Errorf("buffer = %q", c.Text())
	}
	if view.text != "Merhaba Dünya\n" {
		t.Errorf("view text = %q", view.text)
	}
	if c.Progress() != Complete {
		t.Errorf("progress = %v, want complete", c.Progress())
	}
	if len(view.progress) != 2 || view.progress[0] != Running || view.progress[1] != Complete {
		t.Errorf("progress sequence = %v, want [running complete]", view.progress)
	}
	if got := view.lastToast(); got.Kind != style.ToastSuccess || got.Message != MsgRecognized {
		t.Errorf("toast = %+v", got)
	}
	if req.Err() != nil || req.Text() != "Merhaba Dünya\n" {
		t.Errorf("request result = %q, %v", req.Text(), req.Err())
	}
	if c.Busy() {
		t.Error("controller should not be busy after completion")
	}
}

func TestRecognize_EmptyPath(t *testing.T) {
	c, view, _ := newTestController(&fakeRecognizer{text: "x"})

	req, err := c.Recognize("")
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
	if req != nil {
		t.Error("no request should be started")
	}
	if view.toastCount() != 0 || len(view.progress) != 0 {
		t.Error("a dismissed picker should not touch the view")
	}
}

func TestRecognize_FailureLeavesBufferUnchanged(t *testing.T) {
	failures := []error{
		&imaging.DecodeError{Path: "broken.png", Err: errors.New("unexpected EOF")},
		&ocr.RecognitionError{Backend: "exec", Err: errors.New("Failed loading language 'tur'")},
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			c, view, _ := newTestController(&fakeRecognizer{err: failure})
			c.SetText("previous result")

			req, err := c.Recognize("broken.png")
			if err != nil {
				t.Fatalf("Recognize failed: %v", err)
			}
			waitDone(t, req)

			if c.Text() != "previous result" {
				t.Errorf("buffer changed to %q", c.Text())
			}
			if view.setTexts != 0 {
				t.Error("view text must not be replaced on failure")
			}
			if c.Progress() != Idle {
				t.Errorf("progress = %v, want idle", c.Progress())
			}
			if got := view.lastToast(); got.Kind != style.ToastError || got.Message != MsgReadFailed {
				t.Errorf("toast = %+v", got)
			}
			if !errors.Is(req.Err(), failure) {
				t.Errorf("request error = %v", req.Err())
			}
		})
	}
}

func TestRecognize_Busy(t *testing.T) {
	rec := newBlockingRecognizer("first")
	c, view, _ := newTestController(rec)

	first, err := c.Recognize("a.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	<-rec.started

	second, err := c.Recognize("b.png")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if second != nil {
		t.Error("busy request should not return a handle")
	}
	if got := view.lastToast(); got.Kind != style.ToastWarning || got.Message != MsgBusy {
		t.Errorf("toast = %+v", got)
	}
	if !c.Busy() {
		t.Error("first request should still be running")
	}

	close(rec.release)
	waitDone(t, first)

	if c.Text() != "first" {
		t.Errorf("first request result lost: %q", c.Text())
	}
}

func TestCancel(t *testing.T) {
	rec := newBlockingRecognizer("never shown")
	c, view, _ := newTestController(rec)
	c.SetText("keep me")

	req, err := c.Recognize("slow.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	<-rec.started

	if !c.Cancel() {
		t.Fatal("Cancel should report an in-flight request")
	}
	waitDone(t, req)

	if !errors.Is(req.Err(), context.Canceled) {
		t.Errorf("request error = %v, want context.Canceled", req.Err())
	}
	if c.Text() != "keep me" {
		t.Errorf("buffer changed to %q", c.Text())
	}
	if c.Progress() != Idle {
		t.Errorf("progress = %v, want idle", c.Progress())
	}
	if got := view.lastToast(); got.Kind != style.ToastInfo || got.Message != MsgCanceled {
		t.Errorf("toast = %+v", got)
	}
	if c.Cancel() {
		t.Error("Cancel with nothing running should return false")
	}
}

func TestRecognize_Timeout(t *testing.T) {
	rec := newBlockingRecognizer("late")
	view := &fakeView{}
	c := NewController(rec, view, Options{Timeout: 50 * time.Millisecond})

	req, err := c.Recognize("slow.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	waitDone(t, req)

	if !errors.Is(req.Err(), context.DeadlineExceeded) {
		t.Errorf("request error = %v, want deadline exceeded", req.Err())
	}
	if got := view.lastToast(); got.Kind != style.ToastError || got.Message != MsgTimedOut {
		t.Errorf("toast = %+v", got)
	}
}

func TestRecognize_Dispatcher(t *testing.T) {
	var mu sync.Mutex
	var queued []func()
	dispatch := func(fn func()) {
		mu.Lock()
		queued = append(queued, fn)
		mu.Unlock()
	}

	view := &fakeView{}
	c := NewController(&fakeRecognizer{text: "done"}, view, Options{Dispatch: dispatch})

	req, err := c.Recognize("scan.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(queued)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("result was never dispatched")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if c.Text() != "" || c.Progress() != Running {
		t.Error("state must not change before the dispatched callback runs")
	}

	queued[0]()
	waitDone(t, req)
	c.Wait()

	if c.Text() != "done" || c.Progress() != Complete {
		t.Errorf("state after dispatch: %q %v", c.Text(), c.Progress())
	}
}

func TestWait(t *testing.T) {
	rec := newBlockingRecognizer("x")
	c, _, _ := newTestController(rec)

	if _, err := c.Recognize("a.png"); err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	<-rec.started
	close(rec.release)

	c.Wait()
	if c.Busy() {
		t.Error("Wait should return only after the request finished")
	}
}

func TestCopy(t *testing.T) {
	c, view, clip := newTestController(nil)
	c.SetText("  Merhaba\n\n")

	if err := c.Copy(); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if clip.content != "Merhaba" {
		t.Errorf("clipboard = %q, want trimmed text", clip.content)
	}
	if got := view.lastToast(); got.Kind != style.ToastSuccess || got.Message != MsgCopied {
		t.Errorf("toast = %+v", got)
	}
}

func TestCopy_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		c, view, clip := newTestController(nil)
		clip.content = "untouched"
		c.SetText(text)

		if err := c.Copy(); !errors.Is(err, ErrNothingToCopy) {
			t.Errorf("Copy(%q) error = %v, want ErrNothingToCopy", text, err)
		}
		if clip.writes != 0 || clip.content != "untouched" {
			t.Errorf("clipboard must not change for %q", text)
		}
		if got := view.lastToast(); got.Kind != style.ToastWarning || got.Message != MsgNothingToCopy {
			t.Errorf("toast = %+v", got)
		}
	}
}

func TestCopy_NoClipboard(t *testing.T) {
	view := &fakeView{}
	c := NewController(nil, view, Options{})
	c.SetText("Merhaba")

	if err := c.Copy(); !errors.Is(err, ErrNoClipboard) {
		t.Fatalf("Copy error = %v, want ErrNoClipboard", err)
	}
	if got := view.lastToast(); got.Kind != style.ToastError || got.Message != MsgNoClipboard {
		t.Errorf("toast = %+v, want the clipboard error", got)
	}
}

func TestSave(t *testing.T) {
	c, view, _ := newTestController(nil)
	c.SetText("\nŞeker çiçek\n")

	path := filepath.Join(t.TempDir(), "notes.txt")
	written, err := c.Save(path)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != path {
		t.Errorf("written path = %q, want %q", written, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(data) != "Şeker çiçek" {
		t.Errorf("file content = %q", data)
	}
	if got := view.lastToast(); got.Kind != style.ToastSuccess || got.Message != MsgSaved {
		t.Errorf("toast = %+v", got)
	}
}

func TestSave_AppendsExtension(t *testing.T) {
	c, _, _ := newTestController(nil)
	c.SetText("text")

	base := filepath.Join(t.TempDir(), "notes")
	written, err := c.Save(base)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != base+".txt" {
		t.Errorf("written path = %q", written)
	}
	if _, err := os.Stat(base + ".txt"); err != nil {
		t.Errorf("expected %s.txt to exist: %v", base, err)
	}
}

func TestSave_Empty(t *testing.T) {
	c, view, _ := newTestController(nil)
	c.SetText("  \n ")

	path := filepath.Join(t.TempDir(), "empty.txt")
	_, err := c.Save(path)
	if !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created for blank text")
	}
	if got := view.lastToast(); got.Kind != style.ToastWarning || got.Message != MsgNothingToSave {
		t.Errorf("toast = %+v", got)
	}
}

func TestSave_NoPath(t *testing.T) {
	c, view, _ := newTestController(nil)
	c.SetText("text")

	if _, err := c.Save(""); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
	if view.toastCount() != 0 {
		t.Error("a dismissed save dialog should not notify")
	}
}

func TestSave_WriteFailure(t *testing.T) {
	c, view, _ := newTestController(nil)
	c.SetText("text")

	_, err := c.Save(filepath.Join(t.TempDir(), "missing-dir", "notes.txt"))
	if err == nil {
		t.Fatal("Save into a missing directory should fail")
	}
	if errors.Is(err, ErrNothingToSave) {
		t.Error("write failures must be distinct from nothing-to-save")
	}
	if got := view.lastToast(); got.Kind != style.ToastError || got.Message != MsgSaveFailed {
		t.Errorf("toast = %+v", got)
	}
}

func TestWithSaveExtension(t *testing.T) {
	tests := map[string]string{
		"notes":          "notes.txt",
		"notes.txt":      "notes.txt",
		"notes.md":       "notes.md",
		"/tmp/dir/scan":  "/tmp/dir/scan.txt",
		"archive.tar.gz": "archive.tar.gz",
	}
	for in, want := range tests {
		if got := WithSaveExtension(in); got != want {
			t.Errorf("WithSaveExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClear(t *testing.T) {
	c, view, _ := newTestController(nil)
	c.SetText("something")

	c.Clear()

	if c.Text() != "" || view.text != "" {
		t.Error("Clear should empty the buffer and the view")
	}
	if got := view.lastToast(); got.Kind != style.ToastSuccess || got.Message != MsgCleared {
		t.Errorf("toast = %+v", got)
	}
}

func TestToggleTheme(t *testing.T) {
	c, view, _ := newTestController(nil)

	if c.Theme() != style.Light {
		t.Fatalf("initial theme = %v", c.Theme())
	}
	if got := c.ToggleTheme(); got != style.Dark {
		t.Errorf("ToggleTheme() = %v, want dark", got)
	}
	if view.palette.Theme != style.Dark {
		t.Error("view should be restyled with the dark palette")
	}
	c.ToggleTheme()
	if c.Theme() != style.Light || view.palette.Theme != style.Light {
		t.Error("second toggle should return to light")
	}
}

func TestSetFontSize(t *testing.T) {
	c, view, _ := newTestController(nil)

	if c.FontSize() != DefaultFontSize {
		t.Errorf("default font size = %d", c.FontSize())
	}
	if err := c.SetFontSize(22); err != nil {
		t.Fatalf("SetFontSize failed: %v", err)
	}
	if c.FontSize() != 22 || view.fontSize != 22 {
		t.Errorf("font size not applied: %d / %d", c.FontSize(), view.fontSize)
	}
	for _, bad := range []int{0, 13, 26} {
		if err := c.SetFontSize(bad); !errors.Is(err, ErrInvalidFontSize) {
			t.Errorf("SetFontSize(%d) error = %v", bad, err)
		}
	}
	if c.FontSize() != 22 {
		t.Error("rejected size must not change the font")
	}
}

func TestAttach(t *testing.T) {
	view := &fakeView{}
	c := NewController(nil, view, Options{Theme: style.Dark})
	c.SetText("restored")

	c.Attach()

	if view.palette.Theme != style.Dark || view.fontSize != DefaultFontSize {
		t.Errorf("style not applied: %v %d", view.palette.Theme, view.fontSize)
	}
	if view.text != "restored" {
		t.Errorf("view text = %q", view.text)
	}
	if len(view.progress) != 1 || view.progress[0] != Idle {
		t.Errorf("progress = %v", view.progress)
	}
}

func TestProgress_String(t *testing.T) {
	if Idle.String() != "idle" || Running.String() != "running" || Complete.String() != "complete" {
		t.Error("unexpected progress names")
	}
}
