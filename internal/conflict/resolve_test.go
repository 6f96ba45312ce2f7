package conflict

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/symbol"
	"github.com/stretchr/testify/assert"
)

// buildS2Grammar mirrors S2: E : E "+" E | E "*" E | NUMBER . with %left "+"
// declared before %left "*" — star must bind tighter.
func buildS2Grammar(t *testing.T) *ggrammar.Grammar {
	t.Helper()
	tab := symbol.NewTable()
	assert.NoError(t, tab.DefineToken("PLUS", "+", symbol.Location{}))
	assert.NoError(t, tab.DefineToken("STAR", "*", symbol.Location{}))
	assert.NoError(t, tab.DefineToken("NUMBER", "", symbol.Location{}))
	assert.NoError(t, tab.SetPrecedences(symbol.Left, []string{"PLUS"}, symbol.Location{}))
	assert.NoError(t, tab.SetPrecedences(symbol.Left, []string{"STAR"}, symbol.Location{}))
	assert.NoError(t, tab.FinalizePrecedences())
	tab.DefineNonTerminal("E", symbol.Location{})

	prods := []ggrammar.Production{
		{LHS: "E", RHS: []string{"E", "PLUS", "E"}},
		{LHS: "E", RHS: []string{"E", "STAR", "E"}},
		{LHS: "E", RHS: []string{"NUMBER"}},
	}
	return ggrammar.NewGrammar(tab, "E", prods)
}

func Test_Resolve_S2_AllConflictsResolvedWithoutRecordingAny(t *testing.T) {
	assert := assert.New(t)

	g := buildS2Grammar(t)
	firsts := firstset.Compute(g)
	a := automaton.Build(g, firsts)
	Resolve(a, g)

	total := 0
	for _, s := range a.States {
		total += len(s.Conflicts)
	}
	assert.Zero(total, "a grammar whose only conflicts are resolved by distinct precedence levels must have zero residual conflicts")
}

func Test_Resolve_StarBindsTighterThanPlus(t *testing.T) {
	assert := assert.New(t)

	g := buildS2Grammar(t)
	firsts := firstset.Compute(g)
	a := automaton.Build(g, firsts)
	Resolve(a, g)

	// find the state reached after shifting E PLUS E (kernel: E -> E PLUS E .)
	var target *automaton.State
	for _, s := range a.States {
		for _, it := range s.Items.Items() {
			p := g.Productions[it.ProdID]
			if p.LHS == "E" && len(p.RHS) == 3 && p.RHS[1] == "PLUS" && it.Dot == 3 {
				target = s
			}
		}
	}
	assert.NotNil(target)

	// STAR must still be shiftable here (it wins over the E+E reduction),
	// and the E+E reduction's lookahead must no longer contain STAR.
	_, hasStarShift := target.Shift["STAR"]
	assert.True(hasStarShift)

	for _, it := range target.Items.Items() {
		p := g.Productions[it.ProdID]
		if p.LHS == "E" && len(p.RHS) == 3 && p.RHS[1] == "PLUS" && it.IsReducible(g) {
			assert.False(target.Items.Lookahead(it).Has("STAR"))
		}
	}
}

func Test_Resolve_LeftAssociativity_DropsShiftOnEqualPrecedence(t *testing.T) {
	assert := assert.New(t)

	g := buildS2Grammar(t)
	firsts := firstset.Compute(g)
	a := automaton.Build(g, firsts)
	Resolve(a, g)

	// The state reached after E PLUS E, on lookahead PLUS (equal precedence,
	// left-associative): shift must be dropped so the rule reduces first,
	// producing left-to-right grouping.
	var target *automaton.State
	for _, s := range a.States {
		for _, it := range s.Items.Items() {
			p := g.Productions[it.ProdID]
			if p.LHS == "E" && len(p.RHS) == 3 && p.RHS[1] == "PLUS" && it.Dot == 3 {
				target = s
			}
		}
	}
	assert.NotNil(target)
	_, hasPlusShift := target.Shift["PLUS"]
	assert.False(hasPlusShift, "left-associative equal-precedence conflict must drop the shift")
}
