// Package item implements the dotted-item and item-set algebra (spec
// section 4.3): items, kernel/non-kernel partitioning, closure, and
// goto-kernel computation. Grounded on the teacher's grammar.LR1Item /
// grammar.ItemSet string-keyed representation (dekarrin-tunaq/internal/
// ictiobus/grammar/item.go), re-architected around the handle/integer
// identity spec section 9 calls for ("Equality is handle-equality;
// ordering is handle-ordering... ordered sets of items use a total order
// on (production-id, dot)") instead of the teacher's string-rendering
// comparisons.
package item

import (
	"fmt"

	"github.com/dekarrin/lalrgen/internal/ggrammar"
)

// Item is a pair (production, dot): a position within a production's RHS,
// 0 <= Dot <= len(RHS).
type Item struct {
	ProdID int
	Dot    int
}

// Less orders items by (ProdID, Dot), the total order spec section 9
// requires for deterministic item enumeration.
func (i Item) Less(o Item) bool {
	if i.ProdID != o.ProdID {
		return i.ProdID < o.ProdID
	}
	return i.Dot < o.Dot
}

func (i Item) String() string {
	return fmt.Sprintf("(%d,%d)", i.ProdID, i.Dot)
}

// IsReducible reports whether the dot has reached the end of the
// production's RHS.
func (i Item) IsReducible(g *ggrammar.Grammar) bool {
	return i.Dot == len(g.Productions[i.ProdID].RHS)
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists (false for a reducible item).
func (i Item) NextSymbol(g *ggrammar.Grammar) (string, bool) {
	rhs := g.Productions[i.ProdID].RHS
	if i.Dot >= len(rhs) {
		return "", false
	}
	return rhs[i.Dot], true
}

// IsClosable reports whether the symbol after the dot exists and is a
// non-terminal.
func (i Item) IsClosable(g *ggrammar.Grammar) bool {
	sym, ok := i.NextSymbol(g)
	return ok && g.IsNonTerminal(sym)
}

// IsKernel reports whether Dot > 0, or the production's LHS is the
// synthetic start non-terminal (spec section 3: "kernel when dot > 0 or
// LHS is Start").
func (i Item) IsKernel(g *ggrammar.Grammar) bool {
	if i.Dot > 0 {
		return true
	}
	return g.Productions[i.ProdID].LHS == startLHS(g)
}

func startLHS(g *ggrammar.Grammar) string {
	return g.Productions[ggrammar.StartProductionID].LHS
}

// Advanced returns the item with the dot moved one position to the right.
// Callers must only call this on a non-reducible item.
func (i Item) Advanced() Item {
	return Item{ProdID: i.ProdID, Dot: i.Dot + 1}
}

// Render renders the item as "LHS -> α · β" using g to resolve the
// production text, mirroring the teacher's LR0Item.String presentation
// used in the states report.
func (i Item) Render(g *ggrammar.Grammar) string {
	p := g.Productions[i.ProdID]
	out := p.LHS + " ->"
	for pos, sym := range p.RHS {
		if pos == i.Dot {
			out += " ·"
		}
		out += " " + sym
	}
	if i.Dot == len(p.RHS) {
		out += " ·"
	}
	return out
}
