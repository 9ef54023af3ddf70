// Package style holds the light and dark color tables used by the front end.
//
// Every color is looked up from a static table keyed by Theme and role;
// nothing is computed from widget state.
package style

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme selects a color table.
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	switch t {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return fmt.Sprintf("Theme(%d)", int(t))
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// ParseTheme accepts "light" or "dark", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return Light, fmt.Errorf("unknown theme %q", s)
	}
}

// Role identifies a colored action button.
type Role int

const (
	RoleTheme Role = iota
	RoleSelect
	RoleCopy
	RoleSave
)

// Roles lists every button role.
var Roles = []Role{RoleTheme, RoleSelect, RoleCopy, RoleSave}

func (r Role) String() string {
	switch r {
	case RoleTheme:
		return "theme"
	case RoleSelect:
		return "select"
	case RoleCopy:
		return "copy"
	case RoleSave:
		return "save"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ToastKind selects a notification color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

func (k ToastKind) String() string {
	switch k {
	case ToastInfo:
		return "info"
	case ToastSuccess:
		return "success"
	case ToastWarning:
		return "warning"
	case ToastError:
		return "error"
	default:
		return fmt.Sprintf("ToastKind(%d)", int(k))
	}
}

// ButtonStyle is the look of one action button.
type ButtonStyle struct {
	Fill     colorful.Color
	Hover    colorful.Color
	Disabled colorful.Color
	Text     colorful.Color
}

// TextStyle is the look of the editable text area.
type TextStyle struct {
	Text       colorful.Color
	Border     colorful.Color
	Background colorful.Color
}

// Palette is one complete table entry.
type Palette struct {
	Theme   Theme
	Buttons map[Role]ButtonStyle
	TextBox TextStyle

	// Window is the background behind all widgets.
	Window colorful.Color
}

// Button returns the style for role.
func (p Palette) Button(r Role) ButtonStyle {
	return p.Buttons[r]
}

// ToastColor returns the background of a notification of kind k.
// Toast colors do not depend on the theme.
func ToastColor(k ToastKind) colorful.Color {
	if c, ok := toastColors[k]; ok {
		return c
	}
	return toastColors[ToastInfo]
}

// ToastText returns the text color used on every notification.
func ToastText() colorful.Color {
	return white
}

// Lookup returns the table entry for t. Unknown themes fall back to Light.
func Lookup(t Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[Light]
}

// disabledWeight is how far a disabled button's fill moves toward the
// text box background.
const disabledWeight = 0.6

var white = colorful.Color{R: 1, G: 1, B: 1}

var toastColors = map[ToastKind]colorful.Color{
	ToastInfo:    mustHex("#2196F3"),
	ToastSuccess: mustHex("#4CAF50"),
	ToastWarning: mustHex("#FF9800"),
	ToastError:   mustHex("#F44336"),
}

type buttonHex struct{ fill, hover string }

var palettes = map[Theme]Palette{
	Light: build(Light, "#f0f0f0",
		TextStyle{Text: mustHex("#000000"), Border: mustHex("#d0d0d0"), Background: mustHex("#ffffff")},
		map[Role]buttonHex{
			RoleTheme:  {"#9e9e9e", "#757575"},
			RoleSelect: {"#4CAF50", "#45a049"},
			RoleCopy:   {"#2196F3", "#1976D2"},
			RoleSave:   {"#FF9800", "#fb8c00"},
		}),
	Dark: build(Dark, "#121212",
		TextStyle{Text: mustHex("#ffffff"), Border: mustHex("#333333"), Background: mustHex("#212121")},
		map[Role]buttonHex{
			RoleTheme:  {"#4f4f4f", "#333333"},
			RoleSelect: {"#388e3c", "#1b5e20"},
			RoleCopy:   {"#1976d2", "#0d47a1"},
			RoleSave:   {"#f57c00", "#e65100"},
		}),
}

func build(t Theme, window string, text TextStyle, buttons map[Role]buttonHex) Palette {
	p := Palette{
		Theme:   t,
		Buttons: make(map[Role]ButtonStyle, len(buttons)),
		TextBox: text,
		Window:  mustHex(window),
	}
	for role, hex := range buttons {
		fill := mustHex(hex.fill)
		p.Buttons[role] = ButtonStyle{
			Fill:     fill,
			Hover:    mustHex(hex.hover),
			Disabled: fill.BlendLab(text.Background, disabledWeight).Clamped(),
			Text:     white,
		}
	}
	return p
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("style: bad color %q: %v", s, err))
	}
	return c
}
