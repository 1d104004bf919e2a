package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects when color is emitted
type Mode string

const (
	ModeAuto   Mode = "auto"   // Color only when the output is a terminal
	ModeAlways Mode = "always" // Force ANSI color
	ModeNever  Mode = "never"  // Plain text
)

// ParseMode validates a color mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeAlways, ModeNever:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown color mode %q", s)
	}
}

// Palette colors diagnostic text for one output stream.
// The zero value is a plain palette.
type Palette struct {
	enabled bool
	red     lipgloss.Style
	cyan    lipgloss.Style
	bold    lipgloss.Style
}

// Plain returns a palette that leaves text untouched
func Plain() Palette {
	return Palette{}
}

// New builds a palette for w. In auto mode the terminal's color profile
// decides, which also honors NO_COLOR. Styled text keeps its tabs.
func New(w io.Writer, mode Mode) Palette {
	if mode == ModeNever {
		return Plain()
	}

	r := lipgloss.NewRenderer(w)
	if mode == ModeAlways {
		r.SetColorProfile(termenv.ANSI)
	}
	if r.ColorProfile() == termenv.Ascii {
		return Plain()
	}

	return Palette{
		enabled: true,
		red:     r.NewStyle().Foreground(lipgloss.Color("9")).TabWidth(lipgloss.NoTabConversion),
		cyan:    r.NewStyle().Foreground(lipgloss.Color("14")).TabWidth(lipgloss.NoTabConversion),
		bold:    r.NewStyle().Bold(true).TabWidth(lipgloss.NoTabConversion),
	}
}

// Enabled reports whether the palette emits escape sequences
func (p Palette) Enabled() bool {
	return p.enabled
}

// Red renders s in the error color
func (p Palette) Red(s string) string {
	if !p.enabled {
		return s
	}
	return p.red.Render(s)
}

// Cyan renders s in the cell-label color
func (p Palette) Cyan(s string) string {
	if !p.enabled {
		return s
	}
	return p.cyan.Render(s)
}

// Bold renders s in bold
func (p Palette) Bold(s string) string {
	if !p.enabled {
		return s
	}
	return p.bold.Render(s)
}
