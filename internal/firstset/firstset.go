// Package firstset computes FIRST sets over a grammar's non-terminals
// (spec section 4.2): for each non-terminal, the set of terminals that may
// begin some derivation, plus a transparency flag marking whether the
// non-terminal derives the empty string. Grounded on the teacher's
// grammar.Grammar.calculate_firsts-style fixed-point pass
// (dekarrin-tunaq/internal/ictiobus/grammar/grammar.go) and on the Rust
// original's first sets pass (original_source/lap_gen/src/grammar.rs),
// generalized to the possibly-transparent, fixed-point algorithm the
// specification requires rather than the teacher's simpler non-nullable
// assumption.
package firstset

import (
	"github.com/dekarrin/lalrgen/internal/genutil"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// Data is the FIRST-set record for a single non-terminal: the set of
// terminals that may begin some derivation, and whether the non-terminal
// can derive the empty string. Immutable once Compute returns (spec
// section 3: "Lifecycle: computed once after all productions are known;
// immutable thereafter").
type Data struct {
	Tokens      *genutil.StringSet
	Transparent bool
}

// Table maps non-terminal name to its computed FIRST data. Every
// non-terminal the grammar knows about — used or not — has an entry, to
// avoid nil-map panics downstream (spec 4.2 edge case: "unused
// non-terminals still get FIRST data").
type Table struct {
	data map[string]*Data
}

// Compute runs the fixed-point FIRST-set algorithm over every non-terminal
// in g. Initializes transparency to true wherever some production has an
// empty RHS, then repeatedly walks every production's RHS, accumulating
// FIRSTs from symbols while the current symbol is transparent and halting
// at the first non-transparent one; if the whole RHS is transparent the
// LHS becomes transparent too. Iterates until a full pass makes no change.
func Compute(g *ggrammar.Grammar) *Table {
	t := &Table{data: map[string]*Data{}}

	for _, name := range g.Symbols.NonTerminals() {
		t.data[name] = &Data{Tokens: genutil.NewStringSet()}
	}
	t.data[symbol.StartName] = &Data{Tokens: genutil.NewStringSet()}
	t.data[symbol.ErrorName] = &Data{Tokens: genutil.NewStringSet()}

	for _, p := range g.Productions {
		if _, ok := t.data[p.LHS]; !ok {
			t.data[p.LHS] = &Data{Tokens: genutil.NewStringSet()}
		}
		if p.IsEmpty() {
			t.data[p.LHS].Transparent = true
		}
	}

	for {
		changed := false
		for _, p := range g.Productions {
			d := t.data[p.LHS]

			rhsTransparent := true
			for _, sym := range p.RHS {
				if g.IsTerminal(sym) {
					if !d.Tokens.Has(sym) {
						d.Tokens.Add(sym)
						changed = true
					}
					rhsTransparent = false
					break
				}

				sd, ok := t.data[sym]
				if !ok {
					// Unknown symbol: treated as a non-transparent
					// non-terminal contributing nothing, so a malformed
					// grammar cannot make Compute loop forever.
					rhsTransparent = false
					break
				}
				before := d.Tokens.Len()
				d.Tokens.AddAll(sd.Tokens)
				if d.Tokens.Len() != before {
					changed = true
				}
				if !sd.Transparent {
					rhsTransparent = false
					break
				}
			}

			if rhsTransparent && !d.Transparent {
				d.Transparent = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return t
}

// Lookup returns the FIRST data for name, or nil if name is unknown.
func (t *Table) Lookup(name string) *Data {
	return t.data[name]
}

// FirstOfString walks a symbol string left to right, unioning in FIRST
// tokens while each symbol is transparent, and appends fallback iff the
// entire string is transparent (spec 4.2: "a helper first_of_string(
// symbols, fallback_token) that walks a symbol string and appends
// fallback_token iff the entire string is transparent; used during
// closure"). isTerminal classifies a bare symbol name.
func (t *Table) FirstOfString(symbols []string, fallback string, isTerminal func(string) bool) *genutil.StringSet {
	out := genutil.NewStringSet()

	for _, sym := range symbols {
		if isTerminal(sym) {
			out.Add(sym)
			return out
		}

		d := t.data[sym]
		if d == nil {
			return out
		}
		out.AddAll(d.Tokens)
		if !d.Transparent {
			return out
		}
	}

	out.Add(fallback)
	return out
}
