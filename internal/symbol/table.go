package symbol

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lalrgen/internal/genutil"
)

// StartName and ErrorName are the two special non-terminals guaranteed to
// exist exactly once in a Table (spec section 3 invariant). EndOfInput is
// the distinguished end-of-input terminal.
const (
	StartName      = "$Start"
	ErrorName      = "Error"
	EndOfInputName = "$end"
)

// ReservedPrefixes are identifier prefixes set aside for generated code.
// Using one produces a warning (spec 4.1), not a hard error.
var ReservedPrefixes = []string{"aa", "AA"}

// Table is the symbol registry for a single grammar. It owns a pointer to
// every Symbol, keeps insertion order and indexes them by name; names are unique
// (spec section 3 invariant).
type Table struct {
	byName map[string]*Symbol
	order  []string // insertion order, for deterministic enumeration

	literals map[string]string // literal text -> token name

	nextLevel int // count of %left/%right/%nonassoc declarations seen so far

	Warnings []string
}

// NewTable creates a registry pre-populated with the Start and Error
// non-terminals, per the spec 3 invariant that they exist exactly once.
func NewTable() *Table {
	t := &Table{
		byName:   map[string]*Symbol{},
		literals: map[string]string{},
	}
	t.insert(&Symbol{Name: StartName, Kind: KindNonTerminal})
	t.insert(&Symbol{Name: ErrorName, Kind: KindNonTerminal})
	return t
}

func (t *Table) insert(s *Symbol) {
	t.byName[s.Name] = s
	t.order = append(t.order, s.Name)
}

// DuplicateSymbolError is returned by DefineToken/DefineTag when name is
// already bound to a symbol of any kind.
type DuplicateSymbolError struct {
	Name      string
	FirstAt   Location
	AttemptAt Location
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q already defined at %s (redefined at %s)", e.Name, e.FirstAt, e.AttemptAt)
}

func (t *Table) checkReserved(name string) {
	for _, prefix := range ReservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			t.Warnings = append(t.Warnings, fmt.Sprintf("identifier %q uses reserved prefix %q; names with this prefix are set aside for generated code", name, prefix))
			return
		}
	}
}

// DefineToken registers a terminal. If literal is non-empty, the token is a
// literal token looked up by its quoted text later via LiteralLookup;
// otherwise it is a regex token looked up only by name (spec 4.2 contract).
func (t *Table) DefineToken(name string, literal string, loc Location) error {
	if existing, ok := t.byName[name]; ok {
		return &DuplicateSymbolError{Name: name, FirstAt: firstLoc(existing), AttemptAt: loc}
	}
	t.checkReserved(name)

	s := &Symbol{Name: name, Kind: KindTerminal, Literal: literal, DefinedAt: []Location{loc}}
	t.insert(s)

	if literal != "" {
		quoted := fmt.Sprintf("%q", literal)
		t.literals[quoted] = name
	}
	return nil
}

// literalSynonyms names the common single/double-character operator
// literals a synthesized terminal name should read naturally as, matching
// the kind of enum variant a human would have written by hand
// (`%token PLUS "+"`). Anything outside this table falls back to a
// positional LIT_n name.
var literalSynonyms = map[string]string{
	"+": "PLUS", "-": "MINUS", "*": "STAR", "/": "SLASH", "%": "PERCENT",
	"=": "EQUALS", "==": "EQ", "!=": "NEQ", "<": "LT", ">": "GT",
	"<=": "LE", ">=": "GE", "(": "LPAREN", ")": "RPAREN",
	"[": "LBRACKET", "]": "RBRACKET", "{": "LBRACE", "}": "RBRACE",
	",": "COMMA", ";": "SEMI", ":": "COLON", ".": "DOT", "|": "PIPE",
	"&": "AMP", "!": "BANG", "^": "CARET", "~": "TILDE",
}

// AutoDefineLiteral resolves a quoted literal to its terminal symbol,
// registering one on first use if no prior %token declaration named it.
// spec.md's own worked examples (e.g. `%left "+" "-"` directly followed by
// productions using `"+"`) use operator literals without ever declaring a
// %token for them, so a literal is implicitly a valid terminal reference
// the first time it's seen — the same "auto-create on first use" leniency
// UseSymbol already applies to non-terminals (spec 4.1).
// The returned bool is true the first time this literal text is seen,
// letting the caller register a matching lexer rule exactly once.
func (t *Table) AutoDefineLiteral(literal string, loc Location) (*Symbol, bool) {
	quoted := fmt.Sprintf("%q", literal)
	if name, ok := t.literals[quoted]; ok {
		s := t.byName[name]
		s.UsedAt = append(s.UsedAt, loc)
		return s, false
	}

	name, ok := literalSynonyms[literal]
	if !ok {
		name = fmt.Sprintf("LIT_%d", len(t.literals)+1)
	}
	for {
		if _, taken := t.byName[name]; !taken {
			break
		}
		name += "_"
	}

	s := &Symbol{Name: name, Kind: KindTerminal, Literal: literal, DefinedAt: []Location{loc}}
	t.insert(s)
	t.literals[quoted] = name
	return s, true
}

// DefineTag registers a precedence-only alias: it may appear in %prec but
// never in an RHS.
func (t *Table) DefineTag(name string, loc Location) error {
	if existing, ok := t.byName[name]; ok {
		return &DuplicateSymbolError{Name: name, FirstAt: firstLoc(existing), AttemptAt: loc}
	}
	t.checkReserved(name)

	s := &Symbol{Name: name, Kind: KindTag, DefinedAt: []Location{loc}}
	t.insert(s)
	return nil
}

// DefineNonTerminal is idempotent on name: repeated calls accumulate
// definition sites rather than erroring, since a non-terminal's "true"
// definition is the union of all its productions' LHS occurrences.
func (t *Table) DefineNonTerminal(name string, loc Location) *Symbol {
	if existing, ok := t.byName[name]; ok {
		existing.DefinedAt = append(existing.DefinedAt, loc)
		return existing
	}
	t.checkReserved(name)

	s := &Symbol{Name: name, Kind: KindNonTerminal, DefinedAt: []Location{loc}}
	t.insert(s)
	return s
}

// NonTerminalPrecedenceError is returned when a precedence declaration
// names a non-terminal, which spec 4.1 forbids.
type NonTerminalPrecedenceError struct {
	Name string
}

func (e *NonTerminalPrecedenceError) Error() string {
	return fmt.Sprintf("non-terminal %q cannot be given a precedence", e.Name)
}

// UseSymbol looks up name and records a use at loc, auto-creating a
// non-terminal if the name is unknown (spec 4.1: "auto-creating a
// non-terminal if unknown"). Returns the resolved symbol.
func (t *Table) UseSymbol(name string, loc Location) *Symbol {
	if existing, ok := t.byName[name]; ok {
		existing.UsedAt = append(existing.UsedAt, loc)
		return existing
	}
	t.checkReserved(name)

	s := &Symbol{Name: name, Kind: KindNonTerminal, UsedAt: []Location{loc}}
	t.insert(s)
	return s
}

// LiteralLookup maps a quoted literal's exact text (including the
// surrounding quotes, as it appears in the grammar source) to its token
// symbol. Returns nil if no literal token matches.
func (t *Table) LiteralLookup(quoted string) *Symbol {
	name, ok := t.literals[quoted]
	if !ok {
		return nil
	}
	return t.byName[name]
}

// Lookup returns the symbol bound to name, or nil.
func (t *Table) Lookup(name string) *Symbol {
	return t.byName[name]
}

// SetPrecedences consumes the next precedence level (spec 4.1) and assigns
// it to every named symbol. Declarations are numbered in encounter order
// starting at 1: the first %left/%right/%nonassoc gets level 1 (loosest
// binding), each subsequent declaration gets a strictly higher level
// (tighter binding) — spec section 3's "earlier declaration = lower level,
// i.e. binds looser". Level 0 stays reserved for "never set", so any
// explicitly declared level dominates it in the precedence(t) <
// precedence(r) comparison the conflict resolver runs. Every named symbol
// must already resolve to a terminal or tag, auto-creating an
// as-yet-undeclared name as a tag (mirroring UseSymbol's auto-creation of
// non-terminals); a non-terminal name is an error, and no symbol already
// bound to one is touched before the error is returned.
func (t *Table) SetPrecedences(assoc Associativity, names []string, loc Location) error {
	for _, name := range names {
		if s, ok := t.byName[name]; ok && s.Kind == KindNonTerminal {
			return &NonTerminalPrecedenceError{Name: name}
		}
	}

	t.nextLevel++
	level := t.nextLevel
	for _, name := range names {
		s, ok := t.byName[name]
		if !ok {
			s = t.DefineTagIfAbsent(name, loc)
		}
		s.Precedence = Precedence{Assoc: assoc, Level: level}
		s.UsedAt = append(s.UsedAt, loc)
	}
	return nil
}

// FinalizePrecedences closes the configuration & definitions section's
// precedence declarations. It performs no further assignment — levels are
// already final as of each SetPrecedences call — but gives the grammar
// spec parser an explicit boundary to call once config parsing is done and
// before any conflict resolution runs, mirroring the phase structure of
// the pipeline in spec section 2.
func (t *Table) FinalizePrecedences() error {
	return nil
}

func (t *Table) DefineTagIfAbsent(name string, loc Location) *Symbol {
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := &Symbol{Name: name, Kind: KindTag, DefinedAt: []Location{loc}}
	t.insert(s)
	return s
}

// Names returns every registered symbol name in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Terminals returns the names of every terminal symbol, in insertion order.
func (t *Table) Terminals() []string {
	var out []string
	for _, n := range t.order {
		if t.byName[n].Kind == KindTerminal {
			out = append(out, n)
		}
	}
	return out
}

// NonTerminals returns the names of every user-defined non-terminal (i.e.
// excluding Start and Error), in insertion order.
func (t *Table) NonTerminals() []string {
	var out []string
	for _, n := range t.order {
		if n == StartName || n == ErrorName {
			continue
		}
		if t.byName[n].Kind == KindNonTerminal {
			out = append(out, n)
		}
	}
	return out
}

// UndefinedNonTerminals returns the names of non-terminals that were used
// but never appear as the LHS of any production — the spec 7 "semantic —
// structural" hard failure condition. prodLHS is the set of LHS names that
// do have at least one production.
func (t *Table) UndefinedNonTerminals(prodLHS *genutil.StringSet) []string {
	var out []string
	for _, n := range t.order {
		s := t.byName[n]
		if s.Kind != KindNonTerminal {
			continue
		}
		if n == ErrorName {
			continue // Error is synthesized, never has user productions
		}
		if !prodLHS.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

func firstLoc(s *Symbol) Location {
	if len(s.DefinedAt) > 0 {
		return s.DefinedAt[0]
	}
	if len(s.UsedAt) > 0 {
		return s.UsedAt[0]
	}
	return Location{}
}
