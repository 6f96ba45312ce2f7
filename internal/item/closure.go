package item

import (
	"sort"

	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
)

// Closure expands seed by repeatedly adding, for every closable item
// `A -> alpha . B beta` with lookahead L, for every production `B -> gamma`,
// the item `(B -> . gamma)` with lookahead `first_of_string(beta, l)` for
// each `l` in L — unioning into any lookahead the item already carries.
// Iterates until a full pass adds nothing (spec section 4.3). seed is not
// mutated; the returned set starts as a copy of it.
func Closure(g *ggrammar.Grammar, firsts *firstset.Table, seed *ItemSet) *ItemSet {
	result := seed.Copy()

	for {
		changed := false
		for _, it := range result.Items() {
			sym, ok := it.NextSymbol(g)
			if !ok || !g.IsNonTerminal(sym) {
				continue
			}

			rhs := g.Productions[it.ProdID].RHS
			beta := rhs[it.Dot+1:]
			la := result.Lookahead(it)

			for _, prodIdx := range g.ByLHS[sym] {
				newItem := Item{ProdID: prodIdx, Dot: 0}

				for _, l := range la.Elements() {
					f := firsts.FirstOfString(beta, l, g.IsTerminal)
					if result.Add(newItem, f) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return result
}

// GotoKernel computes the (unclosed) kernel obtained by shifting every item
// of I whose next symbol equals sym one position forward, carrying
// lookahead sets over unchanged (spec section 4.3). Returns nil if no item
// of I has sym as its next symbol.
func GotoKernel(g *ggrammar.Grammar, I *ItemSet, sym string) *ItemSet {
	out := NewItemSet()
	any := false
	for _, it := range I.Items() {
		next, ok := it.NextSymbol(g)
		if !ok || next != sym {
			continue
		}
		any = true
		out.Add(it.Advanced(), I.Lookahead(it))
	}
	if !any {
		return nil
	}
	return out
}

// NextSymbols returns, in deterministic (terminals-then-non-terminals,
// each alphabetical) order, every distinct symbol that appears immediately
// after the dot of some non-reducible item in I — the set of symbols the
// state builder must compute a goto-kernel for (spec 4.4: "for each
// distinct next-symbol X appearing in a non-reducible item of S").
func NextSymbols(g *ggrammar.Grammar, I *ItemSet) []string {
	seen := map[string]bool{}
	var terms, nonterms []string
	for _, it := range I.Items() {
		sym, ok := it.NextSymbol(g)
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		if g.IsTerminal(sym) {
			terms = append(terms, sym)
		} else {
			nonterms = append(nonterms, sym)
		}
	}
	sort.Strings(terms)
	sort.Strings(nonterms)
	return append(terms, nonterms...)
}
