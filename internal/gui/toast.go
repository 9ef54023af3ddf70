package gui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ironsheep/ocrpad/internal/app"
	"github.com/ironsheep/ocrpad/internal/style"
)

const (
	toastDuration = 2 * time.Second
	toastTop      = 20
)

// showToast pops a colored message at the top center of c and hides it
// after toastDuration.
func showToast(c fyne.Canvas, t app.Toast) {
	text := canvas.NewText(t.Message, style.ToastText())
	text.TextStyle = fyne.TextStyle{Bold: true}

	bg := canvas.NewRectangle(style.ToastColor(t.Kind))
	bg.CornerRadius = 8

	pop := widget.NewPopUp(container.NewStack(bg, container.NewPadded(text)), c)
	pop.ShowAtPosition(toastPosition(c.Size(), pop.MinSize()))

	time.AfterFunc(toastDuration, func() {
		fyne.Do(pop.Hide)
	})
}

func toastPosition(canvasSize, toastSize fyne.Size) fyne.Position {
	x := (canvasSize.Width - toastSize.Width) / 2
	if x < 0 {
		x = 0
	}
	return fyne.NewPos(x, toastTop)
}
