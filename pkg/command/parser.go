// Package command recognises and parses roll commands.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/vtmroll/vtmroll/pkg/dice"
)

const (
	DefaultPrefix        = "/vtm5e"
	DefaultMaxDice       = 50
	DefaultMaxDifficulty = 50
)

var (
	// ErrUsage reports text that does not match the roll grammar.
	ErrUsage = errors.New("command does not match usage")
	// ErrOutOfRange reports a number above the configured ceiling.
	ErrOutOfRange = errors.New("value out of range")
)

// Limits caps the numbers a command may carry.
type Limits struct {
	MaxDice       int
	MaxDifficulty int
}

func DefaultLimits() Limits {
	return Limits{MaxDice: DefaultMaxDice, MaxDifficulty: DefaultMaxDifficulty}
}

// Parser matches "<prefix> <pool> <hunger> <difficulty>" exactly.
type Parser struct {
	prefix string
	limits Limits
	re     *regexp.Regexp
}

func NewParser(prefix string, limits Limits) (*Parser, error) {
	if prefix == "" {
		return nil, fmt.Errorf("command prefix is empty")
	}
	if strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return nil, fmt.Errorf("command prefix %q contains whitespace", prefix)
	}
	if limits.MaxDice <= 0 || limits.MaxDifficulty <= 0 {
		return nil, fmt.Errorf("limits must be positive, got %+v", limits)
	}

	re, err := regexp.Compile(`^` + regexp.QuoteMeta(prefix) + `\s(\d+)\s(\d+)\s(\d+)$`)
	if err != nil {
		return nil, fmt.Errorf("compile command pattern: %w", err)
	}

	return &Parser{prefix: prefix, limits: limits, re: re}, nil
}

func (p *Parser) Prefix() string { return p.prefix }

func (p *Parser) Limits() Limits { return p.limits }

// Triggered reports whether text is addressed to the bot: its first token
// must be the prefix itself.
func (p *Parser) Triggered(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && fields[0] == p.prefix
}

// Parse extracts the request from a complete command.
func (p *Parser) Parse(text string) (dice.Request, error) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return dice.Request{}, ErrUsage
	}
	return p.ParseArgs(m[1], m[2], m[3])
}

// ParseArgs parses the three numbers of a command.
func (p *Parser) ParseArgs(pool, hunger, difficulty string) (dice.Request, error) {
	var req dice.Request
	var err error

	if req.Pool, err = parseBounded("dice pool", pool, p.limits.MaxDice); err != nil {
		return dice.Request{}, err
	}
	if req.Hunger, err = parseBounded("hunger pool", hunger, p.limits.MaxDice); err != nil {
		return dice.Request{}, err
	}
	if req.Difficulty, err = parseBounded("difficulty", difficulty, p.limits.MaxDifficulty); err != nil {
		return dice.Request{}, err
	}
	return req, nil
}

func parseBounded(field, s string, ceiling int) (int, error) {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, ErrUsage
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &RangeError{Field: field, Max: ceiling}
		}
		return 0, ErrUsage
	}
	if n > ceiling {
		return 0, &RangeError{Field: field, Value: n, Max: ceiling}
	}
	return n, nil
}

// RangeError names the field that exceeded its ceiling. Value is zero when
// the digits did not fit in an int.
type RangeError struct {
	Field string
	Value int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s exceeds the maximum of %d", e.Field, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Syntax is the usage line for prefix.
func Syntax(prefix string) string {
	return prefix + " <integer_dice_pool> <integer_hunger_pool> <integer_difficulty>"
}

// Example is a valid command for prefix.
func Example(prefix string) string {
	return prefix + " 5 2 3"
}
