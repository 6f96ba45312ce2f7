package reduce

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/conflict"
	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/stretchr/testify/assert"
)

func Test_Plan_SingleUnpredicatedReduceIsBareReduce(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "E", RHS: []string{"NUMBER"}},
	}
	g := ggrammar.NewGrammar(tab, "E", prods)
	firsts := firstset.Compute(g)
	a := automaton.Build(g, firsts)
	conflict.Resolve(a, g)

	plans, err := Plan(a, g)
	assert.NoError(err)

	var found bool
	for _, p := range plans {
		for _, e := range p.Actions {
			if e.Kind == KindReduce {
				found = true
				assert.Equal(1, e.ProdID)
			}
		}
	}
	assert.True(found)
}

func Test_Plan_StartProductionEmitsAccept(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "E", RHS: []string{"NUMBER"}},
	}
	g := ggrammar.NewGrammar(tab, "E", prods)
	firsts := firstset.Compute(g)
	a := automaton.Build(g, firsts)
	conflict.Resolve(a, g)

	plans, err := Plan(a, g)
	assert.NoError(err)

	var acceptFound bool
	for _, p := range plans {
		if e, ok := p.Actions[symbol.EndOfInputName]; ok && e.Kind == KindAccept {
			acceptFound = true
			assert.Equal(ggrammar.StartProductionID, e.ProdID)
		}
	}
	assert.True(acceptFound)
}

// Test_Plan_PredicatedAndFallbackOrdering mirrors S1's division
// alternative by exercising the predicated/fallback grouping directly: one
// predicated production and one unpredicated production sharing a
// lookahead terminal must produce a KindPredicated entry with the
// unpredicated alternative last.
func Test_Plan_PredicatedAndFallbackOrdering(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("SLASH", "/", symbol.Location{}))
	assert.NoError(tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "E", RHS: []string{"E", "SLASH", "E"}, Predicate: "$3 != 0"},
		{LHS: "E", RHS: []string{"NUMBER"}},
	}
	g := ggrammar.NewGrammar(tab, "E", prods)

	// Synthesize a state directly with two competing reductions sharing a
	// lookahead terminal, bypassing full automaton construction (this
	// grammar's real states never produce this combination; the point is
	// to test buildEntry's grouping/ordering contract in isolation).
	entry, err := buildEntry(0, "$end", []int{1, 2}, g)
	assert.NoError(err)
	assert.Equal(KindPredicated, entry.Kind)
	assert.Len(entry.Alternatives, 2)
	assert.Equal("$3 != 0", entry.Alternatives[0].Predicate)
	assert.Equal("", entry.Alternatives[1].Predicate)
	assert.Equal(2, entry.Alternatives[1].ProdID)
}

func Test_Plan_TwoUnpredicatedAlternativesIsRejected(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "E", RHS: []string{"NUMBER"}},
		{LHS: "E", RHS: []string{"NUMBER", "NUMBER"}},
	}
	g := ggrammar.NewGrammar(tab, "E", prods)

	_, err := buildEntry(0, "$end", []int{1, 2}, g)
	assert.Error(err)
	var fc *FallbackConflictError
	assert.ErrorAs(err, &fc)
}
