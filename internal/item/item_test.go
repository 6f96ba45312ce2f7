package item

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/genutil"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/stretchr/testify/assert"
)

// buildExprGrammar builds a minimal calculator grammar:
//
//	Start -> E
//	E -> E PLUS E
//	E -> NUMBER
func buildExprGrammar(t *testing.T) (*ggrammar.Grammar, *firstset.Table) {
	t.Helper()
	tab := symbol.NewTable()
	assert.NoError(t, tab.DefineToken("PLUS", "+", symbol.Location{}))
	assert.NoError(t, tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(t, tab.FinalizePrecedences())
	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "E", RHS: []string{"E", "PLUS", "E"}},
		{LHS: "E", RHS: []string{"NUMBER"}},
	}
	g := ggrammar.NewGrammar(tab, "E", prods)
	firsts := firstset.Compute(g)
	return g, firsts
}

func Test_Item_IsReducibleAndKernel(t *testing.T) {
	assert := assert.New(t)

	g, _ := buildExprGrammar(t)

	start := Item{ProdID: ggrammar.StartProductionID, Dot: 0}
	assert.True(start.IsKernel(g), "the initial item on Start is always a kernel item")
	assert.False(start.IsReducible(g))

	// E -> NUMBER . is reducible (production index 2: Start, E->E+E, E->NUMBER)
	reducible := Item{ProdID: 2, Dot: 1}
	assert.True(reducible.IsReducible(g))
	nonKernel := Item{ProdID: 2, Dot: 0}
	assert.False(nonKernel.IsKernel(g))
}

func Test_ItemSet_KernelKey_IgnoresLookahead(t *testing.T) {
	assert := assert.New(t)
	g, _ := buildExprGrammar(t)

	a := NewItemSet()
	a.Add(Item{ProdID: ggrammar.StartProductionID, Dot: 0}, genutil.NewStringSet("$end"))

	b := NewItemSet()
	b.Add(Item{ProdID: ggrammar.StartProductionID, Dot: 0}, genutil.NewStringSet("PLUS"))

	assert.Equal(a.KernelKey(g), b.KernelKey(g))
}

func Test_Closure_ExpandsStartItem(t *testing.T) {
	assert := assert.New(t)
	g, firsts := buildExprGrammar(t)

	seed := NewItemSet()
	seed.Add(Item{ProdID: ggrammar.StartProductionID, Dot: 0}, genutil.NewStringSet(symbol.EndOfInputName))

	closed := Closure(g, firsts, seed)

	// Both E productions must appear at dot 0 with lookahead {PLUS, $end}
	// (PLUS because E -> E . PLUS E puts PLUS in FIRST(beta) for the
	// E->E+E alternative's closure contribution, $end inherited from Start).
	eplus := Item{ProdID: 1, Dot: 0}
	enum := Item{ProdID: 2, Dot: 0}
	assert.True(closed.Has(eplus))
	assert.True(closed.Has(enum))

	la := closed.Lookahead(enum)
	assert.True(la.Has(symbol.EndOfInputName))
	assert.True(la.Has("PLUS"))
}

func Test_GotoKernel_ShiftsDotAndCarriesLookahead(t *testing.T) {
	assert := assert.New(t)
	g, firsts := buildExprGrammar(t)

	seed := NewItemSet()
	seed.Add(Item{ProdID: ggrammar.StartProductionID, Dot: 0}, genutil.NewStringSet(symbol.EndOfInputName))
	closed := Closure(g, firsts, seed)

	gk := GotoKernel(g, closed, "NUMBER")
	assert.NotNil(gk)
	shifted := Item{ProdID: 2, Dot: 1}
	assert.True(gk.Has(shifted))
	assert.True(gk.Lookahead(shifted).Has(symbol.EndOfInputName))
	assert.True(gk.Lookahead(shifted).Has("PLUS"))

	assert.Nil(GotoKernel(g, closed, "NOSUCHSYMBOL"))
}

func Test_NextSymbols_TerminalsBeforeNonTerminalsAlphabetical(t *testing.T) {
	assert := assert.New(t)
	g, firsts := buildExprGrammar(t)

	seed := NewItemSet()
	seed.Add(Item{ProdID: ggrammar.StartProductionID, Dot: 0}, genutil.NewStringSet(symbol.EndOfInputName))
	closed := Closure(g, firsts, seed)

	syms := NextSymbols(g, closed)
	assert.Equal([]string{"NUMBER", "E"}, syms)
}
