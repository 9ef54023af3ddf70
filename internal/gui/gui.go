// Package gui is the fyne desktop front end. It implements app.View and
// forwards every user action to an app.Controller.
package gui

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ocrpad/internal/app"
	"github.com/ironsheep/ocrpad/internal/imaging"
	"github.com/ironsheep/ocrpad/internal/logging"
	"github.com/ironsheep/ocrpad/internal/style"
)

// AppID identifies the application to fyne's preferences store.
const AppID = "io.github.ironsheep.ocrpad"

const (
	windowTitle     = "OCR - Image to Text"
	windowWidth     = 1080
	windowHeight    = 720
	defaultSaveName = "text.txt"
)

// Options configures Run.
type Options struct {
	Theme   style.Theme
	Timeout time.Duration
	Log     logrus.FieldLogger
}

// Run opens the main window on a and blocks until it is closed.
func Run(a fyne.App, recognizer app.Recognizer, opts Options) {
	w, ctrl := start(a, recognizer, opts)
	w.win.ShowAndRun()
	ctrl.Cancel()
}

// start builds the window and its controller and paints the initial state.
func start(a fyne.App, recognizer app.Recognizer, opts Options) (*window, *app.Controller) {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}

	w := newWindow(a, logging.Named(opts.Log, "gui"))
	ctrl := app.NewController(recognizer, w, app.Options{
		Timeout:   opts.Timeout,
		Dispatch:  fyne.Do,
		Clipboard: w.win.Clipboard(),
		Theme:     opts.Theme,
		Log:       opts.Log,
	})
	w.bind(ctrl)
	ctrl.Attach()
	return w, ctrl
}

// window is the main window and the app.View implementation.
type window struct {
	app  fyne.App
	win  fyne.Window
	log  logrus.FieldLogger
	ctrl *app.Controller

	entry      *widget.Entry
	entryTheme *container.ThemeOverride
	fontSelect *widget.Select
	busyBar    *widget.ProgressBarInfinite
	doneBar    *widget.ProgressBar
	status     *widget.Label

	themeBtn, selectBtn, cancelBtn, copyBtn, saveBtn *actionButton
	buttons                                          []*actionButton
	buttonTheme                                      *container.ThemeOverride
}

var _ app.View = (*window)(nil)

func newWindow(a fyne.App, log logrus.FieldLogger) *window {
	w := &window{
		app: a,
		win: a.NewWindow(windowTitle),
		log: log,
	}
	w.win.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.win.SetFixedSize(true)
	return w
}

// bind builds the widgets and wires them to ctrl.
func (w *window) bind(ctrl *app.Controller) {
	w.ctrl = ctrl

	w.entry = widget.NewMultiLineEntry()
	w.entry.TextStyle = fyne.TextStyle{Monospace: true}
	w.entry.Wrapping = fyne.TextWrapWord
	w.entry.SetPlaceHolder("Recognized text appears here.")
	w.entry.OnChanged = ctrl.SetText
	w.entryTheme = container.NewThemeOverride(w.entry, newPaletteTheme(style.Lookup(ctrl.Theme())))

	sizes := make([]string, len(app.FontSizes))
	for i, s := range app.FontSizes {
		sizes[i] = strconv.Itoa(s)
	}
	// SetSelected would fire OnChanged before the buttons exist, so the
	// initial size is set directly and Attach paints it.
	w.fontSelect = widget.NewSelect(sizes, nil)
	w.fontSelect.Selected = strconv.Itoa(ctrl.FontSize())
	w.fontSelect.OnChanged = func(v string) {
		size, err := strconv.Atoi(v)
		if err != nil {
			return
		}
		if err := ctrl.SetFontSize(size); err != nil {
			w.log.WithError(err).Warn("font size rejected")
		}
	}

	clearBtn := widget.NewButton("Clear", w.confirmClear)
	selectAllBtn := widget.NewButton("Select all", w.selectAll)
	deleteBtn := widget.NewButton("Delete selection", w.deleteSelection)

	w.busyBar = widget.NewProgressBarInfinite()
	w.busyBar.Stop()
	w.busyBar.Hide()
	w.doneBar = widget.NewProgressBar()
	w.status = widget.NewLabel("")

	w.themeBtn = newActionButton("Theme", style.RoleTheme, func() { ctrl.ToggleTheme() })
	w.selectBtn = newActionButton("Select image", style.RoleSelect, w.openImage)
	w.cancelBtn = newActionButton("Cancel", style.RoleTheme, func() { ctrl.Cancel() })
	w.copyBtn = newActionButton("Copy", style.RoleCopy, func() { _ = ctrl.Copy() })
	w.saveBtn = newActionButton("Save", style.RoleSave, w.saveText)
	w.buttons = []*actionButton{w.themeBtn, w.selectBtn, w.cancelBtn, w.copyBtn, w.saveBtn}
	w.cancelBtn.Disable()

	row := container.NewGridWithColumns(len(w.buttons))
	for _, b := range w.buttons {
		row.Add(b.object())
	}
	w.buttonTheme = container.NewThemeOverride(row, newPaletteTheme(style.Lookup(ctrl.Theme())).onFill())

	controls := container.NewVBox(
		container.NewHBox(widget.NewLabel("Font size"), w.fontSelect),
		container.NewHBox(clearBtn, selectAllBtn, deleteBtn),
		container.NewStack(w.doneBar, w.busyBar),
		w.status,
		w.buttonTheme,
	)

	w.win.SetContent(container.NewPadded(container.NewBorder(nil, controls, nil, nil, w.entryTheme)))
}

func (w *window) SetText(text string) {
	w.entry.SetText(text)
}

func (w *window) SetProgress(p app.Progress) {
	switch p {
	case app.Running:
		w.doneBar.Hide()
		w.busyBar.Show()
		w.busyBar.Start()
		w.status.SetText("Recognizing...")
		w.selectBtn.Disable()
		w.cancelBtn.Enable()
	case app.Complete:
		w.stopBusy()
		w.doneBar.SetValue(1)
		w.status.SetText("Done")
	default:
		w.stopBusy()
		w.doneBar.SetValue(0)
		w.status.SetText("")
	}
}

func (w *window) stopBusy() {
	w.busyBar.Stop()
	w.busyBar.Hide()
	w.doneBar.Show()
	w.selectBtn.Enable()
	w.cancelBtn.Disable()
}

func (w *window) Notify(t app.Toast) {
	showToast(w.win.Canvas(), t)
}

func (w *window) ApplyStyle(p style.Palette, fontSize int) {
	base := newPaletteTheme(p)
	w.app.Settings().SetTheme(base)

	w.entryTheme.Theme = base.withTextSize(fontSize)
	w.entryTheme.Refresh()

	w.buttonTheme.Theme = base.onFill()
	w.buttonTheme.Refresh()
	for _, b := range w.buttons {
		b.applyPalette(p)
	}
}

func (w *window) openImage() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			w.log.WithError(err).Warn("open dialog failed")
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()

		if _, err := w.ctrl.Recognize(path); err != nil {
			w.log.WithField("path", path).WithError(err).Debug("recognition not started")
		}
	}, w.win)
	d.SetFilter(storage.NewExtensionFileFilter(imaging.SupportedExtensions))
	d.Resize(fyne.NewSize(windowWidth*3/4, windowHeight*3/4))
	d.Show()
}

func (w *window) saveText() {
	if err := w.ctrl.PrepareSave(); err != nil {
		return
	}

	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			w.log.WithError(err).Warn("save dialog failed")
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		_ = wc.Close()

		// The dialog already created the chosen file; drop it when the
		// controller will write to path + ".txt" instead.
		if filepath.Ext(path) == "" {
			_ = os.Remove(path)
		}
		if _, err := w.ctrl.Save(path); err != nil {
			w.log.WithField("path", path).WithError(err).Debug("text not saved")
		}
	}, w.win)
	d.SetFileName(defaultSaveName)
	d.SetFilter(storage.NewExtensionFileFilter([]string{app.SaveExtension}))
	d.Resize(fyne.NewSize(windowWidth*3/4, windowHeight*3/4))
	d.Show()
}

func (w *window) confirmClear() {
	dialog.ShowConfirm("Clear", "Are you sure you want to delete all text?", func(ok bool) {
		if ok {
			w.ctrl.Clear()
		}
	}, w.win)
}

func (w *window) selectAll() {
	w.win.Canvas().Focus(w.entry)
	w.entry.TypedShortcut(&fyne.ShortcutSelectAll{})
}

func (w *window) deleteSelection() {
	if w.entry.SelectedText() == "" {
		return
	}
	w.entry.TypedKey(&fyne.KeyEvent{Name: fyne.KeyDelete})
}
