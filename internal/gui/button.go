package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/ironsheep/ocrpad/internal/style"
)

// actionButton is a button painted with a role color from the palette.
// The fill sits in a rectangle behind a transparent widget.Button.
type actionButton struct {
	widget.Button

	role    style.Role
	bg      *canvas.Rectangle
	look    style.ButtonStyle
	hovered bool
}

func newActionButton(label string, role style.Role, tapped func()) *actionButton {
	b := &actionButton{
		role: role,
		bg:   canvas.NewRectangle(color.Transparent),
	}
	b.Text = label
	b.OnTapped = tapped
	b.Importance = widget.LowImportance
	b.bg.CornerRadius = 6
	b.ExtendBaseWidget(b)
	return b
}

// object returns the button stacked on its fill.
func (b *actionButton) object() fyne.CanvasObject {
	return container.NewStack(b.bg, b)
}

func (b *actionButton) applyPalette(p style.Palette) {
	b.look = p.Button(b.role)
	b.paint()
}

func (b *actionButton) paint() {
	switch {
	case b.Disabled():
		b.bg.FillColor = b.look.Disabled
	case b.hovered:
		b.bg.FillColor = b.look.Hover
	default:
		b.bg.FillColor = b.look.Fill
	}
	b.bg.Refresh()
}

func (b *actionButton) MouseIn(e *desktop.MouseEvent) {
	b.Button.MouseIn(e)
	b.hovered = true
	b.paint()
}

func (b *actionButton) MouseOut() {
	b.Button.MouseOut()
	b.hovered = false
	b.paint()
}

func (b *actionButton) Enable() {
	b.Button.Enable()
	b.paint()
}

func (b *actionButton) Disable() {
	b.Button.Disable()
	b.paint()
}
