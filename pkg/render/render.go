// Package render turns resolved rolls into chat replies.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vtmroll/vtmroll/pkg/command"
	"github.com/vtmroll/vtmroll/pkg/dice"
)

// Renderer formats replies for one kind of chat surface. Implementations are
// pure: equal inputs give equal text.
type Renderer interface {
	Result(r dice.Result) string
	Usage(prefix string) string
	Error(prefix string, err error) string
}

// style supplies the surface-specific decorations.
type style struct {
	strike  func(face string) string
	plain   func(s string) string
	heading func(pool string) string
	glyphs  map[dice.Outcome]string
	code    func(s string) string
}

func (s style) result(r dice.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.heading("black:"), s.faces(r.Tally.Normal.Rolls))
	fmt.Fprintf(&b, "%s %s\n", s.heading("red:"), s.faces(r.Tally.Hunger.Rolls))
	fmt.Fprintf(&b, "successes: %d / %d\n", r.Tally.Successes, r.Request.Difficulty)
	fmt.Fprintf(&b, "outcome: %s", s.plain(r.Outcome.String()+" "+s.glyphs[r.Outcome]))
	return b.String()
}

func (s style) faces(rolls []int) string {
	parts := make([]string, 0, len(rolls))
	for _, face := range rolls {
		v := fmt.Sprintf("%d", face)
		if face < dice.SuccessThreshold {
			parts = append(parts, s.strike(v))
			continue
		}
		parts = append(parts, s.plain(v))
	}
	return strings.Join(parts, ", ")
}

func (s style) usage(prefix string) string {
	return "Usage:\n" + s.code(command.Syntax(prefix)) + "\nExample: " + s.code(command.Example(prefix))
}

func (s style) error(prefix string, err error) string {
	var rangeErr *command.RangeError
	if errors.As(err, &rangeErr) {
		return s.plain(fmt.Sprintf("The %s may not exceed %d.", rangeErr.Field, rangeErr.Max))
	}
	return s.usage(prefix)
}

func identity(s string) string { return s }
