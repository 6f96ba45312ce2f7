// Package conflict implements shift/reduce and reduce/reduce conflict
// resolution (spec section 4.5): precedence/associativity/error-tail
// policy applied per state, with unresolved conflicts recorded for the
// states report. Grounded on the algorithm spec section 4.5 spells out
// directly, cross-checked against the Rust original's
// resolve_shift_reduce_conflicts/resolve_reduce_reduce_conflicts
// (original_source/lap_gen/src/state.rs) since the teacher's own
// ictiobus/parse package never implements precedence-driven resolution at
// all (its LALR construction stops at kernel merging).
package conflict

import (
	"sort"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/genutil"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/item"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// Resolve walks every state of a and applies the shift/reduce then
// reduce/reduce resolution rules in place: state shift tables and item
// lookahead sets are mutated, and unresolved conflicts are appended to
// each state's Conflicts.
func Resolve(a *automaton.Automaton, g *ggrammar.Grammar) {
	for _, s := range a.States {
		resolveShiftReduce(s, g)
		resolveReduceReduce(s, g)
	}
}

func reducibleItems(s *automaton.State, g *ggrammar.Grammar) []item.Item {
	var out []item.Item
	for _, it := range s.Items.Items() {
		if it.IsReducible(g) {
			out = append(out, it)
		}
	}
	return out
}

// resolveShiftReduce applies spec 4.5's shift/reduce branch. Terminals are
// visited in sorted order and reducible items in (production-id, dot)
// order, so that when a default resolution must pick a "later-declared"
// loser the outcome is deterministic (spec section 9).
func resolveShiftReduce(s *automaton.State, g *ggrammar.Grammar) {
	terms := make([]string, 0, len(s.Shift))
	for t := range s.Shift {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	for _, t := range terms {
		tPrec := g.Symbols.Lookup(t).Precedence

		for _, r := range reducibleItems(s, g) {
			la := s.Items.Lookahead(r)
			if la == nil || !la.Has(t) {
				continue
			}
			prod := g.Productions[r.ProdID]
			rPrec := prod.Precedence

			switch {
			case tPrec.Level < rPrec.Level:
				delete(s.Shift, t)
			case tPrec.Level > rPrec.Level:
				la.Remove(t)
			case rPrec.Assoc == symbol.Left:
				delete(s.Shift, t)
			case prod.HasErrorTail():
				la.Remove(t)
			default:
				la.Remove(t)
				s.Conflicts = append(s.Conflicts, automaton.Conflict{
					Kind:     automaton.ShiftReduce,
					Terminal: t,
					ProdIDs:  []int{r.ProdID},
				})
			}

			if _, stillShifts := s.Shift[t]; !stillShifts {
				break
			}
		}
	}
}

// resolveReduceReduce applies spec 4.5's reduce/reduce branch over every
// unordered pair of reducible items with overlapping lookahead.
// Later-declared means a larger production id, matching declaration order
// (spec section 9: "identity comparisons on productions... use their
// integer identifier").
func resolveReduceReduce(s *automaton.State, g *ggrammar.Grammar) {
	items := reducibleItems(s, g)

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			r1, r2 := items[i], items[j]
			la1 := s.Items.Lookahead(r1)
			la2 := s.Items.Lookahead(r2)
			if la1 == nil || la2 == nil {
				continue
			}

			overlap := genutil.NewStringSet()
			for _, v := range la1.Elements() {
				if la2.Has(v) {
					overlap.Add(v)
				}
			}
			if overlap.Empty() {
				continue
			}

			p1 := g.Productions[r1.ProdID]
			p2 := g.Productions[r2.ProdID]

			switch {
			case p1.HasErrorTail():
				for _, v := range overlap.Elements() {
					la1.Remove(v)
				}
			case p2.HasErrorTail():
				for _, v := range overlap.Elements() {
					la2.Remove(v)
				}
			default:
				loser := r1
				if r2.ProdID > r1.ProdID {
					loser = r2
				}
				loserLA := s.Items.Lookahead(loser)
				for _, v := range overlap.Elements() {
					loserLA.Remove(v)
				}
				s.Conflicts = append(s.Conflicts, automaton.Conflict{
					Kind:     automaton.ReduceReduce,
					Terminal: overlap.Elements()[0],
					ProdIDs:  []int{r1.ProdID, r2.ProdID},
				})
			}
		}
	}
}
