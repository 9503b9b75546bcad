package render

import "github.com/vtmroll/vtmroll/pkg/dice"

var markdownGlyphs = map[dice.Outcome]string{
	dice.OutcomeMessyFailure:         ":japanese_ogre: :thumbsdown:",
	dice.OutcomeMessyCriticalSuccess: ":japanese_ogre: :boom:",
	dice.OutcomeCriticalSuccess:      ":boom:",
	dice.OutcomeSuccess:              ":thumbsup:",
	dice.OutcomeFailure:              ":thumbsdown:",
}

// Markdown renders for Discord: ~~struck~~ faces and emoji shortcodes.
type Markdown struct{}

func (Markdown) style() style {
	return style{
		strike:  func(face string) string { return "~~" + face + "~~" },
		plain:   identity,
		heading: identity,
		glyphs:  markdownGlyphs,
		code:    func(s string) string { return "```" + s + "```" },
	}
}

func (m Markdown) Result(r dice.Result) string { return m.style().result(r) }

func (m Markdown) Usage(prefix string) string { return m.style().usage(prefix) }

func (m Markdown) Error(prefix string, err error) string { return m.style().error(prefix, err) }
