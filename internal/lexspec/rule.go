// Package lexspec models the inline lexer specification (spec section
// 6.1): ordered literal rules, regex rules, and skip patterns, plus a
// scanner that lexes input against them. The grammar specification file
// itself is read by specparser's own hand-written scanner, not by this
// package. Grounded on the teacher's lex.Lexer/AddPattern builder API
// (dekarrin-tunaq/internal/ictiobus/lex/lex.go) and its GNU-lex-style
// longest-match tie-break (lex/lazy.go selectMatch), generalized with the
// literal-over-regex tie-break spec section 9's open-question resolution
// requires.
package lexspec

import (
	"fmt"
	"regexp"
)

// Kind distinguishes a rule's role.
type Kind int

const (
	KindLiteral Kind = iota
	KindRegex
	KindSkip
)

// Rule is one `%token`/`%skip` declaration. Order is the declaration's
// position within the specification, used for first-declared tie-breaking
// (spec section 9's worked tie-break rule).
type Rule struct {
	Kind      Kind
	TokenName string // empty for KindSkip
	Pattern   string // literal text for KindLiteral, regex source otherwise
	Order     int

	compiled *regexp.Regexp // only set for KindRegex/KindSkip
}

// Compile prepares r's regex for matching. No-op for literal rules, which
// are matched by direct prefix comparison rather than a compiled pattern.
func (r *Rule) Compile() error {
	if r.Kind == KindLiteral {
		return nil
	}
	re, err := regexp.Compile(`\A(?:` + r.Pattern + `)`)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.displayName(), err)
	}
	r.compiled = re
	return nil
}

func (r *Rule) displayName() string {
	if r.TokenName != "" {
		return r.TokenName
	}
	return "%skip " + r.Pattern
}

// matchLen returns the length in bytes of the longest match of r starting
// at the beginning of remaining, or -1 if r does not match there.
func (r *Rule) matchLen(remaining string) int {
	switch r.Kind {
	case KindLiteral:
		if len(remaining) >= len(r.Pattern) && remaining[:len(r.Pattern)] == r.Pattern {
			return len(r.Pattern)
		}
		return -1
	default:
		loc := r.compiled.FindStringIndex(remaining)
		if loc == nil || loc[0] != 0 {
			return -1
		}
		return loc[1]
	}
}
