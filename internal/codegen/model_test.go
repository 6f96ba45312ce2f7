package codegen

import (
	"testing"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/conflict"
	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/reduce"
	"github.com/dekarrin/lalrgen/internal/specparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calculatorSpec = `
%attr int
%target Calc
%token NUMBER (\d+)
%left "+" "-"
%left "*" "/"
%right UMINUS
%%
E : E "+" E !{ $$ = $1 + $3; !}
  | E "-" E !{ $$ = $1 - $3; !}
  | E "*" E !{ $$ = $1 * $3; !}
  | E "/" E ?( $3 != 0 ?) !{ $$ = $1 / $3; !}
  | "-" E %prec UMINUS !{ $$ = -$2; !}
  | NUMBER
  .
`

// buildModel runs the full analysis pipeline (parse -> firstset -> automaton
// -> conflict resolution -> reduction plan) the way cmd/lalrgen's driver
// will, and hands the result to Build.
func buildModel(t *testing.T) *Model {
	t.Helper()
	require := require.New(t)

	res, err := specparser.Parse("calc.lalr", calculatorSpec, nil)
	require.NoError(err)

	firsts := firstset.Compute(res.Grammar)
	a := automaton.Build(res.Grammar, firsts)
	conflict.Resolve(a, res.Grammar)

	plans, err := reduce.Plan(a, res.Grammar)
	require.NoError(err)

	m, err := Build("calc", res.Grammar, a, plans, res.Lexer, res.Target, res.Attr)
	require.NoError(err)
	return m
}

func Test_Build_CarriesTargetAttrAndStartState(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m := buildModel(t)
	require.NotEmpty(m.States)
	assert.Equal("Calc", m.Target)
	assert.Equal("int", m.AttrGoType)
	assert.Equal(0, m.StartState)
}

// Test_RewriteRefs_HandlesLookaheadAndInjectTokens exercises spec 4.6's
// $? (current lookahead tag) and $INJECT (streaming-token hook) splices,
// which must become valid Go identifiers/calls against the dispatcher's
// lookahead/inject parameters rather than being passed through verbatim.
func Test_RewriteRefs_HandlesLookaheadAndInjectTokens(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(`lookahead == "NUMBER"`, rewriteRefs(`$? == "NUMBER"`, 0))
	assert.Equal(`inject("NUMBER", "0")`, rewriteRefs(`$INJECT("NUMBER", "0")`, 0))
	assert.Equal(`result = rhs[0]; inject("NUMBER", "0")`, rewriteRefs(`$$ = $1; $INJECT("NUMBER", "0")`, 1))
}

func Test_Build_DivisionProductionCarriesRewrittenPredicateAndAction(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m := buildModel(t)

	var found bool
	for _, id := range m.ProdIDs {
		p := m.Prods[id]
		if p.LHS == "E" && p.RHSLen == 3 && p.Predicate != "" {
			found = true
			assert.Equal("rhs[2] != 0", p.Predicate)
			assert.Contains(p.Action, "result")
		}
	}
	assert.True(found, "expected to find the predicated division production")
}

func Test_Build_EmitsShiftRowsForOperatorLiterals(t *testing.T) {
	assert := assert.New(t)

	m := buildModel(t)

	var sawShift bool
	for _, s := range m.States {
		if len(s.Shift) > 0 {
			sawShift = true
			break
		}
	}
	assert.True(sawShift, "expected at least one state with shift transitions")
}

const errorRecoverySpec = `
%token ID ([a-zA-Z]+)
%token NUMBER (\d+)
%%
Line : Stmt
     | %error
     .
Stmt : ID "=" E
     .
E : NUMBER
  .
`

// buildErrorRecoveryModel mirrors buildModel but over a grammar whose
// only alternative besides Stmt is %error, so its automaton carries at
// least one error-recovery edge to exercise ViableRecovery against.
func buildErrorRecoveryModel(t *testing.T) *Model {
	t.Helper()
	require := require.New(t)

	res, err := specparser.Parse("err.lalr", errorRecoverySpec, nil)
	require.NoError(err)

	firsts := firstset.Compute(res.Grammar)
	a := automaton.Build(res.Grammar, firsts)
	conflict.Resolve(a, res.Grammar)

	plans, err := reduce.Plan(a, res.Grammar)
	require.NoError(err)

	m, err := Build("err", res.Grammar, a, plans, res.Lexer, res.Target, res.Attr)
	require.NoError(err)
	return m
}

// Test_Build_ViableRecoveryMapsTerminalsToRecoveryStates exercises spec
// 4.7/6.4's viable_error_recovery_states(token): only states whose
// recovery target has the given terminal in the lookahead of a reducible
// Error-tailed item should be returned, not every error-recovery state.
func Test_Build_ViableRecoveryMapsTerminalsToRecoveryStates(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m := buildErrorRecoveryModel(t)

	var sawErrorRecoveryState bool
	for _, s := range m.States {
		if s.HasErrorRecovery {
			sawErrorRecoveryState = true
		}
	}
	require.True(sawErrorRecoveryState, "grammar with a %%error alternative must produce at least one error-recovery state")

	require.NotEmpty(m.ViableRecovery, "the Line -> %%error alternative's reducible lookahead must populate ViableRecovery")
	for _, row := range m.ViableRecovery {
		assert.NotEmpty(row.Terminal)
		assert.NotEmpty(row.States, "each listed terminal must map to at least one viable recovery state")
	}
}
