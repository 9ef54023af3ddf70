package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ironsheep/ocrpad/internal/style"
)

// paletteTheme maps a style.Palette onto fyne's theme color names.
// Anything the palette does not cover comes from the default theme.
type paletteTheme struct {
	palette  style.Palette
	textSize float32
	onColor  bool
}

var _ fyne.Theme = (*paletteTheme)(nil)

func newPaletteTheme(p style.Palette) *paletteTheme {
	return &paletteTheme{palette: p}
}

// withTextSize returns a copy whose body text is size points.
func (t *paletteTheme) withTextSize(size int) *paletteTheme {
	c := *t
	c.textSize = float32(size)
	return &c
}

// onFill returns a copy for widgets drawn on top of a colored fill:
// foreground turns white and backgrounds become transparent.
func (t *paletteTheme) onFill() *paletteTheme {
	c := *t
	c.onColor = true
	return &c
}

func (t *paletteTheme) variant() fyne.ThemeVariant {
	if t.palette.Theme == style.Dark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

func (t *paletteTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if t.onColor {
		switch name {
		case theme.ColorNameForeground:
			return t.palette.Button(style.RoleTheme).Text
		case theme.ColorNameButton, theme.ColorNameHover, theme.ColorNamePressed:
			return color.Transparent
		}
	}

	switch name {
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground, theme.ColorNameMenuBackground:
		return t.palette.Window
	case theme.ColorNameInputBackground:
		return t.palette.TextBox.Background
	case theme.ColorNameInputBorder:
		return t.palette.TextBox.Border
	case theme.ColorNameForeground:
		return t.palette.TextBox.Text
	}
	return theme.DefaultTheme().Color(name, t.variant())
}

func (t *paletteTheme) Font(s fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(s)
}

func (t *paletteTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *paletteTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText && t.textSize > 0 {
		return t.textSize
	}
	return theme.DefaultTheme().Size(name)
}
