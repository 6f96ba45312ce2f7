package firstset

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/stretchr/testify/assert"
)

// Test_Compute_NullableChain mirrors the S4 scenario: A : B C . ; B : . ;
// C : "x" . First(A) = {"x"}; transparent(A) = false; transparent(B) = true.
func Test_Compute_NullableChain(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("X", "x", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("A", symbol.Location{})
	tab.DefineNonTerminal("B", symbol.Location{})
	tab.DefineNonTerminal("C", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "A", RHS: []string{"B", "C"}},
		{LHS: "B", RHS: nil},
		{LHS: "C", RHS: []string{"X"}},
	}
	g := ggrammar.NewGrammar(tab, "A", prods)

	firsts := Compute(g)

	a := firsts.Lookup("A")
	assert.False(a.Transparent)
	assert.Equal([]string{"X"}, a.Tokens.Elements())

	b := firsts.Lookup("B")
	assert.True(b.Transparent)
	assert.True(b.Tokens.Empty())

	c := firsts.Lookup("C")
	assert.False(c.Transparent)
	assert.Equal([]string{"X"}, c.Tokens.Elements())
}

func Test_Compute_UnusedNonTerminalGetsEmptyData(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("X", "x", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("A", symbol.Location{})
	tab.DefineNonTerminal("Unused", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "A", RHS: []string{"X"}},
	}
	g := ggrammar.NewGrammar(tab, "A", prods)

	firsts := Compute(g)
	unused := firsts.Lookup("Unused")
	assert.NotNil(unused)
	assert.False(unused.Transparent)
	assert.True(unused.Tokens.Empty())
}

func Test_FirstOfString_AppendsFallbackWhenFullyTransparent(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("X", "x", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("A", symbol.Location{})
	tab.DefineNonTerminal("B", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "A", RHS: []string{"B"}},
		{LHS: "B", RHS: nil},
	}
	g := ggrammar.NewGrammar(tab, "A", prods)
	firsts := Compute(g)

	result := firsts.FirstOfString([]string{"B"}, "$end", g.IsTerminal)
	assert.Equal([]string{"$end"}, result.Elements())
}

func Test_FirstOfString_StopsAtFirstNonTransparentSymbol(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("X", "x", symbol.Location{}))
	assert.NoError(tab.DefineToken("Y", "y", symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())
	tab.DefineNonTerminal("A", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "A", RHS: []string{"X"}},
	}
	g := ggrammar.NewGrammar(tab, "A", prods)
	firsts := Compute(g)

	result := firsts.FirstOfString([]string{"X", "Y"}, "$end", g.IsTerminal)
	assert.Equal([]string{"X"}, result.Elements())
}
