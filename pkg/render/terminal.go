package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vtmroll/vtmroll/pkg/dice"
)

// Terminal renders for the command line.
type Terminal struct {
	// Plain disables colors and strike-through.
	Plain bool
}

var (
	blackHeading = lipgloss.NewStyle().Bold(true)
	redHeading   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	struckFace   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	codeStyle    = lipgloss.NewStyle().Italic(true)
)

func (t Terminal) style() style {
	if t.Plain {
		return style{
			strike:  func(face string) string { return "(" + face + ")" },
			plain:   identity,
			heading: identity,
			glyphs:  unicodeGlyphs,
			code:    identity,
		}
	}
	return style{
		strike: func(face string) string { return struckFace.Render(face) },
		plain:  identity,
		heading: func(pool string) string {
			if pool == "red:" {
				return redHeading.Render(pool)
			}
			return blackHeading.Render(pool)
		},
		glyphs: unicodeGlyphs,
		code:   func(s string) string { return codeStyle.Render(s) },
	}
}

func (t Terminal) Result(r dice.Result) string { return t.style().result(r) }

func (t Terminal) Usage(prefix string) string { return t.style().usage(prefix) }

func (t Terminal) Error(prefix string, err error) string { return t.style().error(prefix, err) }
