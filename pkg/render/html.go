package render

import (
	"html"

	"github.com/vtmroll/vtmroll/pkg/dice"
)

var unicodeGlyphs = map[dice.Outcome]string{
	dice.OutcomeMessyFailure:         "\U0001F479 \U0001F44E",
	dice.OutcomeMessyCriticalSuccess: "\U0001F479 \U0001F4A5",
	dice.OutcomeCriticalSuccess:      "\U0001F4A5",
	dice.OutcomeSuccess:              "\U0001F44D",
	dice.OutcomeFailure:              "\U0001F44E",
}

// HTML renders for Telegram's HTML parse mode.
type HTML struct{}

func (HTML) style() style {
	return style{
		strike:  func(face string) string { return "<s>" + face + "</s>" },
		plain:   html.EscapeString,
		heading: identity,
		glyphs:  unicodeGlyphs,
		code:    func(s string) string { return "<code>" + html.EscapeString(s) + "</code>" },
	}
}

func (h HTML) Result(r dice.Result) string { return h.style().result(r) }

func (h HTML) Usage(prefix string) string { return h.style().usage(prefix) }

func (h HTML) Error(prefix string, err error) string { return h.style().error(prefix, err) }
