// Package ictierr provides the error types shared by the grammar-spec
// parser and the generator's semantic-analysis passes. It follows the
// shape the teacher's (unretrieved) icterrors package is used with
// throughout ictiobus — NewSyntaxErrorFromToken(msg, tok).FullMessage()
// — reconstructed here since the original package wasn't part of the
// pack.
package ictierr

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Position is a source location: 1-indexed line and column, plus the full
// text of the line the position falls on, so FullMessage can render a
// caret pointer under the offending text the way a compiler diagnostic
// would.
type Position struct {
	Line     int
	Col      int
	FullLine string
	Width    int // number of runes the offending lexeme occupies
}

// Kind distinguishes the error taxonomy from spec section 7.
type Kind int

const (
	KindLexical Kind = iota
	KindSyntactic
	KindSymbol
	KindStructural
	KindConflict
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntax"
	case KindSymbol:
		return "semantic"
	case KindStructural:
		return "semantic"
	case KindConflict:
		return "conflict"
	case KindIO:
		return "I/O"
	default:
		return "error"
	}
}

// Error is a diagnostic with an optional source position. A nil Pos means
// the error has no associated location (e.g. an I/O failure).
type Error struct {
	Kind Kind
	Msg  string
	Pos  *Position
}

func (e *Error) Error() string {
	if e.Pos == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s error at line %d, col %d: %s", e.Kind, e.Pos.Line, e.Pos.Col, e.Msg)
}

// FullMessage renders a two-line diagnostic: the message, then the full
// source line with a caret pointer under the offending span, matching the
// teacher's LR parser's error-reporting style in parse/lr.go (which builds
// "expected X, Y or Z" strings via findExpectedTokens/getExpectedString
// before handing off to the error type's formatter).
func (e *Error) FullMessage() string {
	if e.Pos == nil {
		return e.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s error at line %d: %s\n", e.Kind, e.Pos.Line, e.Msg)
	sb.WriteString(e.Pos.FullLine)
	sb.WriteRune('\n')

	col := e.Pos.Col
	if col < 1 {
		col = 1
	}
	sb.WriteString(strings.Repeat(" ", col-1))
	width := e.Pos.Width
	if width < 1 {
		width = 1
	}
	sb.WriteString(strings.Repeat("^", width))

	return sb.String()
}

// New builds an Error with no source position attached.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NewAt builds an Error positioned at pos.
func NewAt(kind Kind, pos Position, format string, args ...any) *Error {
	p := pos
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: &p}
}

// Located is implemented by anything that carries enough information to be
// reported as a source Position — in particular, lex tokens.
type Located interface {
	Line() int
	LinePos() int
	FullLine() string
	Lexeme() string
}

// NewSyntaxErrorFromToken builds a syntactic Error located at tok.
func NewSyntaxErrorFromToken(msg string, tok Located) *Error {
	return &Error{
		Kind: KindSyntactic,
		Msg:  msg,
		Pos: &Position{
			Line:     tok.Line(),
			Col:      tok.LinePos(),
			FullLine: tok.FullLine(),
			Width:    runeLen(tok.Lexeme()),
		},
	}
}

var titleCaser = cases.Title(language.English)

// ExpectedTokensMessage builds the "expected X, Y, or Z" clause the
// teacher's findExpectedTokens/getExpectedString pair produces in
// parse/lr.go, Title-casing each token class into a human-readable
// description (NUMBER -> "Number") and joining with Oxford-comma "or".
// An empty expected list yields the empty string, so callers can append
// it to a base message only when non-empty.
func ExpectedTokensMessage(expected []string) string {
	if len(expected) == 0 {
		return ""
	}

	described := make([]string, len(expected))
	for i, tok := range expected {
		described[i] = titleCaser.String(strings.ToLower(tok))
	}

	switch len(described) {
	case 1:
		return "expected " + described[0]
	case 2:
		return "expected " + described[0] + " or " + described[1]
	default:
		return "expected " + strings.Join(described[:len(described)-1], ", ") + ", or " + described[len(described)-1]
	}
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// Log accumulates errors and warnings during a single generator run,
// mirroring the teacher's pattern of reporting diagnostics to stderr while
// continuing to process as much as possible before a hard failure (spec
// section 7: warnings never fail the build, but the cumulative error count
// does).
type Log struct {
	Errors   []*Error
	Warnings []*Error
}

// AddError records an error and returns it (for chaining into a return
// statement at the hard-fail boundary).
func (l *Log) AddError(err *Error) *Error {
	l.Errors = append(l.Errors, err)
	return err
}

// AddWarning records a warning. Warnings never contribute to HasErrors.
func (l *Log) AddWarning(err *Error) {
	l.Warnings = append(l.Warnings, err)
}

// HasErrors returns whether any hard error has been recorded.
func (l *Log) HasErrors() bool {
	return len(l.Errors) > 0
}
