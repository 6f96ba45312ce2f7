package ggrammar

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/stretchr/testify/assert"
)

func buildSmallGrammar(t *testing.T) *Grammar {
	t.Helper()
	tab := symbol.NewTable()
	assert.NoError(t, tab.DefineToken("PLUS", "+", symbol.Location{}))
	assert.NoError(t, tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(t, tab.FinalizePrecedences())

	tab.DefineNonTerminal("Expr", symbol.Location{})
	tab.UseSymbol("Expr", symbol.Location{})
	tab.UseSymbol("PLUS", symbol.Location{})
	tab.UseSymbol("NUMBER", symbol.Location{})

	prods := []Production{
		{LHS: "Expr", RHS: []string{"Expr", "PLUS", "Expr"}},
		{LHS: "Expr", RHS: []string{"NUMBER"}},
	}
	return NewGrammar(tab, "Expr", prods)
}

func Test_NewGrammar_AugmentsWithStartProduction(t *testing.T) {
	assert := assert.New(t)

	g := buildSmallGrammar(t)

	assert.Equal(symbol.StartName, g.Productions[0].LHS)
	assert.Equal([]string{"Expr"}, g.Productions[0].RHS)
	assert.Equal(StartProductionID, g.Productions[0].ID)

	assert.Equal(1, g.Productions[1].ID)
	assert.Equal(2, g.Productions[2].ID)
}

func Test_Grammar_ProductionsFor(t *testing.T) {
	assert := assert.New(t)

	g := buildSmallGrammar(t)
	exprProds := g.ProductionsFor("Expr")
	assert.Len(exprProds, 2)
}

func Test_Grammar_Validate_UndefinedNonTerminal(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	tab.DefineNonTerminal("Expr", symbol.Location{})
	tab.UseSymbol("Stmt", symbol.Location{}) // used, never defined by a production

	prods := []Production{
		{LHS: "Expr", RHS: []string{"Stmt"}},
	}
	g := NewGrammar(tab, "Expr", prods)

	err := g.Validate()
	assert.Error(err)
	var verr *ValidationError
	assert.ErrorAs(err, &verr)
	assert.Contains(verr.Problems[0], "Stmt")
}

func Test_Grammar_Validate_MissingStartProductions(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	tab.DefineNonTerminal("Expr", symbol.Location{})

	g := NewGrammar(tab, "Expr", nil)
	err := g.Validate()
	assert.Error(err)
}

func Test_Production_String(t *testing.T) {
	assert := assert.New(t)

	p := Production{LHS: "Expr", RHS: []string{"Expr", "PLUS", "Expr"}}
	assert.Equal("Expr -> Expr PLUS Expr", p.String())

	empty := Production{LHS: "Opt"}
	assert.Equal("Opt -> ε", empty.String())
}

func Test_NewGrammar_ResolvesPrecedenceFromLastTerminalOrPrecTag(t *testing.T) {
	assert := assert.New(t)

	tab := symbol.NewTable()
	assert.NoError(tab.DefineToken("PLUS", "+", symbol.Location{}))
	assert.NoError(tab.DefineToken("STAR", "*", symbol.Location{}))
	assert.NoError(tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(tab.DefineTag("UMINUS", symbol.Location{}))
	assert.NoError(tab.SetPrecedences(symbol.Left, []string{"PLUS"}, symbol.Location{}))
	assert.NoError(tab.SetPrecedences(symbol.Left, []string{"STAR"}, symbol.Location{}))
	assert.NoError(tab.SetPrecedences(symbol.Right, []string{"UMINUS"}, symbol.Location{}))
	assert.NoError(tab.FinalizePrecedences())

	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []Production{
		{LHS: "E", RHS: []string{"E", "PLUS", "E"}},
		{LHS: "E", RHS: []string{"E", "STAR", "E"}},
		{LHS: "E", RHS: []string{"PLUS", "E"}, PrecTag: "UMINUS"},
		{LHS: "E", RHS: []string{"NUMBER"}},
	}
	g := NewGrammar(tab, "E", prods)

	plusProd := g.Productions[1]
	starProd := g.Productions[2]
	uminusProd := g.Productions[3]
	numProd := g.Productions[4]

	assert.True(plusProd.Precedence.IsSet())
	assert.Equal(symbol.Left, plusProd.Precedence.Assoc)

	assert.True(starProd.Precedence.IsSet())
	assert.Less(plusProd.Precedence.Level, starProd.Precedence.Level)

	assert.Equal(symbol.Right, uminusProd.Precedence.Assoc)

	assert.False(numProd.Precedence.IsSet(), "a production with no terminal carrying precedence stays unset")
}

func Test_Production_HasErrorTail(t *testing.T) {
	assert := assert.New(t)

	p := Production{LHS: "Stmt", RHS: []string{"IF", symbol.ErrorName}}
	assert.True(p.HasErrorTail())

	p2 := Production{LHS: "Stmt", RHS: []string{"IF", "Expr"}}
	assert.False(p2.HasErrorTail())
}
