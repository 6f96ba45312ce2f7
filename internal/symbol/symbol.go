// Package symbol implements the grammar's symbol registry (spec section
// 4.1): interning of tokens, tags, and non-terminals, with
// definition/use location tracking and the associativity/precedence
// bookkeeping used later by the conflict resolver.
//
// Grounded on the teacher's grammar.Grammar/types.TokenClass split
// (dekarrin-tunaq/internal/ictiobus/grammar, .../types/class.go) and on
// the Rust original's TokenData/NonTerminal symbol records
// (original_source/alap_gen_ng/src/symbol.rs,
// original_source/alap_gen_ng/src/symbol/non_terminal.rs), which carry
// exactly this defined_at/used_at/associativity/precedence shape.
package symbol

import "fmt"

// Kind is the tagged variant of a Symbol (spec section 3).
type Kind int

const (
	KindTerminal Kind = iota
	KindNonTerminal
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindNonTerminal:
		return "non-terminal"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Associativity is one of NonAssoc, Left, or Right.
type Associativity int

const (
	NonAssoc Associativity = iota
	Left
	Right
)

func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "nonassoc"
	}
}

// Location is a position in a grammar specification source file.
type Location struct {
	File string
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Precedence is the (associativity, level) pair every terminal and tag
// carries. The zero value, (NonAssoc, 0), is the "unset" precedence: spec
// section 9 requires that any explicitly-set precedence dominate it during
// conflict resolution.
type Precedence struct {
	Assoc Associativity
	Level int
}

// IsSet reports whether a precedence level was ever assigned via
// %left/%right/%nonassoc. Table.SetPrecedences starts counting at 1 for
// the first declaration, so a zero Level unambiguously means "never set".
func (p Precedence) IsSet() bool {
	return p.Level != 0
}

// Symbol is one registered grammar symbol: its unique name, its kind, the
// literal text for literal tokens, the sites where it was defined and
// used, and its precedence.
type Symbol struct {
	Name    string
	Kind    Kind
	Literal string // exact literal text, only set for literal tokens; "" for regex tokens

	DefinedAt []Location
	UsedAt    []Location

	Precedence Precedence
}

// IsTerminal, IsNonTerminal, IsTag are small readability helpers used at
// call sites that only care about one variant.
func (s *Symbol) IsTerminal() bool    { return s.Kind == KindTerminal }
func (s *Symbol) IsNonTerminal() bool { return s.Kind == KindNonTerminal }
func (s *Symbol) IsTag() bool         { return s.Kind == KindTag }

// Human returns a human-readable label for the symbol: its literal text in
// quotes for literal tokens, else its bare name.
func (s *Symbol) Human() string {
	if s.Literal != "" {
		return fmt.Sprintf("%q", s.Literal)
	}
	return s.Name
}
