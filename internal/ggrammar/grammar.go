package ggrammar

import (
	"fmt"

	"github.com/dekarrin/lalrgen/internal/genutil"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// Grammar is the fully-assembled, validated grammar: the symbol table plus
// the ordered production list, augmented with the synthetic start
// production. Grounded on the teacher's grammar.Grammar aggregate
// (dekarrin-tunaq/internal/ictiobus/grammar/grammar.go), generalized so the
// production list is the immutable record set spec section 3 describes
// rather than the teacher's mutable AddRule-as-you-go builder.
type Grammar struct {
	Symbols     *symbol.Table
	Productions []Production

	// StartSymbol is the user-declared start non-terminal, named by the
	// first production rule's LHS; no directive overrides it.
	StartSymbol string

	// ByLHS indexes production indices by LHS name, in declaration order.
	ByLHS map[string][]int
}

// NewGrammar wraps an already-populated symbol table and un-augmented
// production list, assigning IDs and building the LHS index. The caller is
// responsible for having run symbol.Table.FinalizePrecedences first.
func NewGrammar(tab *symbol.Table, start string, prods []Production) *Grammar {
	g := &Grammar{
		Symbols:     tab,
		StartSymbol: start,
		ByLHS:       map[string][]int{},
	}

	augmented := make([]Production, 0, len(prods)+1)
	augmented = append(augmented, Production{
		ID:  StartProductionID,
		LHS: symbol.StartName,
		RHS: []string{start},
	})
	for i, p := range prods {
		p.ID = i + 1
		augmented = append(augmented, p)
	}
	g.Productions = augmented

	for i := range g.Productions {
		g.resolvePrecedence(i)
		g.ByLHS[g.Productions[i].LHS] = append(g.ByLHS[g.Productions[i].LHS], i)
	}
	return g
}

// resolvePrecedence fills in Productions[i].Precedence per the spec
// section 3 "Precedence selection rule": an explicit %prec TAG wins; else
// the production inherits from the last terminal in its RHS that has an
// explicitly set precedence; else the zero value (NonAssoc, 0).
func (g *Grammar) resolvePrecedence(i int) {
	p := &g.Productions[i]

	if p.PrecTag != "" {
		if s := g.Symbols.Lookup(p.PrecTag); s != nil {
			p.Precedence = s.Precedence
		}
		return
	}

	for j := len(p.RHS) - 1; j >= 0; j-- {
		s := g.Symbols.Lookup(p.RHS[j])
		if s != nil && s.IsTerminal() && s.Precedence.IsSet() {
			p.Precedence = s.Precedence
			return
		}
	}
}

// ProductionsFor returns every production whose LHS is name, in declaration
// order.
func (g *Grammar) ProductionsFor(name string) []Production {
	idxs := g.ByLHS[name]
	out := make([]Production, len(idxs))
	for i, idx := range idxs {
		out[i] = g.Productions[idx]
	}
	return out
}

// IsTerminal reports whether name is a registered terminal.
func (g *Grammar) IsTerminal(name string) bool {
	s := g.Symbols.Lookup(name)
	return s != nil && s.IsTerminal()
}

// IsNonTerminal reports whether name is a registered non-terminal.
func (g *Grammar) IsNonTerminal(name string) bool {
	s := g.Symbols.Lookup(name)
	return s != nil && s.IsNonTerminal()
}

// ValidationError collects every structural problem found by Validate, so
// a generator run can report all of them in one pass rather than failing on
// the first (spec section 7: "continue as much analysis as possible before
// a hard failure").
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d grammar error(s): %s", len(e.Problems), e.Problems[0])
}

// Validate runs the structural checks spec section 7 classifies as hard
// failures: every used non-terminal must have at least one production, and
// the declared start symbol must itself have a production.
func (g *Grammar) Validate() error {
	var problems []string

	lhsSet := genutil.NewStringSet()
	for name := range g.ByLHS {
		lhsSet.Add(name)
	}
	lhsSet.Add(symbol.StartName)

	for _, undef := range g.Symbols.UndefinedNonTerminals(lhsSet) {
		problems = append(problems, fmt.Sprintf("non-terminal %q is used but never defined by a production", undef))
	}

	if len(g.ByLHS[g.StartSymbol]) == 0 {
		problems = append(problems, fmt.Sprintf("start symbol %q has no productions", g.StartSymbol))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
