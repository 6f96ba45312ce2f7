package runtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLexer replays a fixed token sequence, appending an end-of-input
// sentinel once exhausted.
type fakeLexer struct {
	toks []Token
	pos  int
}

func (f *fakeLexer) Next() (Token, error) {
	if f.pos >= len(f.toks) {
		return Token{Class: "$end", EndOfInput: true}, nil
	}
	t := f.toks[f.pos]
	f.pos++
	return t, nil
}

// abParser accepts exactly the two-token string "a" "b", reducing to S.
// States: 0 (start), 1 (after a), 2 (after b, reduces), 3 (goto on S, accepts).
type abParser struct{}

func (abParser) NextAction(state int, token string) NextAction {
	switch {
	case state == 0 && token == "a":
		return NextAction{Action: ActionShift, ShiftState: 1}
	case state == 1 && token == "b":
		return NextAction{Action: ActionShift, ShiftState: 2}
	case state == 2 && token == "$end":
		return NextAction{Action: ActionReduce, ProductionID: 1}
	case state == 3 && token == "$end":
		return NextAction{Action: ActionAccept}
	}
	return NextAction{Action: ActionError}
}

func (abParser) ProductionData(id int) ProductionInfo {
	return ProductionInfo{LHS: "S", RHSLen: 2}
}

func (abParser) GotoState(lhs string, state int) (int, error) {
	if lhs == "S" && state == 0 {
		return 3, nil
	}
	return 0, errors.New("no such goto")
}

func (abParser) LookAheadSet(state int) []string { return nil }

func (abParser) ViableErrorRecoveryStates(token string) []int { return nil }

func (abParser) ErrorGotoState(state int) (int, bool) { return 0, false }

func (abParser) DoSemanticAction(id int, rhs []any, inject InjectFunc) (any, error) {
	return rhs[0].(string) + rhs[1].(string), nil
}

func (abParser) EvaluatePredicate(prodID int, rhs []any, lookahead string) (bool, error) {
	return true, nil
}

func Test_Run_ShiftShiftReduceAccept(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	lex := &fakeLexer{toks: []Token{{Class: "a", Text: "a"}, {Class: "b", Text: "b"}}}
	result, err := Run(abParser{}, lex, 0, "Error")
	require.NoError(err)
	assert.Equal("ab", result)
}

// unrecoverableParser never offers an error-goto state, so recovery must
// fail immediately on an unexpected token.
type unrecoverableParser struct{ abParser }

func (unrecoverableParser) NextAction(state int, token string) NextAction {
	return NextAction{Action: ActionError}
}

// predicatedParser offers two reductions sharing the "$end" lookahead in
// state 1: production 1 (guarded, fires when the shifted numeral is "0")
// and production 2 (the unpredicated fallback).
type predicatedParser struct{}

func (predicatedParser) NextAction(state int, token string) NextAction {
	switch {
	case state == 0 && token == "n":
		return NextAction{Action: ActionShift, ShiftState: 1}
	case state == 1 && token == "$end":
		return NextAction{Action: ActionPredicated, Alternatives: []PredicatedAlt{
			{ProductionID: 1, PredicateSet: true},
			{ProductionID: 2, PredicateSet: false},
		}}
	case state == 3 && token == "$end":
		return NextAction{Action: ActionAccept}
	}
	return NextAction{Action: ActionError}
}

func (predicatedParser) ProductionData(id int) ProductionInfo {
	return ProductionInfo{LHS: "S", RHSLen: 1}
}

func (predicatedParser) GotoState(lhs string, state int) (int, error) {
	if lhs == "S" && state == 0 {
		return 3, nil
	}
	return 0, errors.New("no such goto")
}

func (predicatedParser) LookAheadSet(state int) []string { return nil }

func (predicatedParser) ViableErrorRecoveryStates(token string) []int { return nil }

func (predicatedParser) ErrorGotoState(state int) (int, bool) { return 0, false }

func (predicatedParser) DoSemanticAction(id int, rhs []any, inject InjectFunc) (any, error) {
	if id == 1 {
		return "zero", nil
	}
	return "nonzero", nil
}

func (predicatedParser) EvaluatePredicate(prodID int, rhs []any, lookahead string) (bool, error) {
	return rhs[0].(string) == "0", nil
}

func Test_Run_PredicatedReduceChoosesGuardedAlternative(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	lex := &fakeLexer{toks: []Token{{Class: "n", Text: "0"}}}
	result, err := Run(predicatedParser{}, lex, 0, "Error")
	require.NoError(err)
	assert.Equal("zero", result)
}

func Test_Run_PredicatedReduceFallsBackWhenGuardFails(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	lex := &fakeLexer{toks: []Token{{Class: "n", Text: "7"}}}
	result, err := Run(predicatedParser{}, lex, 0, "Error")
	require.NoError(err)
	assert.Equal("nonzero", result)
}

func Test_Run_UnrecoverableErrorReturnsRecoveryError(t *testing.T) {
	assert := assert.New(t)

	lex := &fakeLexer{toks: []Token{{Class: "z", Text: "z"}}}
	_, err := Run(unrecoverableParser{}, lex, 0, "Error")
	assert.Error(err)
	var recErr *RecoveryError
	assert.ErrorAs(err, &recErr)
}

// unrecoverableWithLookAhead behaves like unrecoverableParser but reports a
// nonempty lookahead set, exercising the "expected X, Y, or Z" clause in
// RecoveryError.Error().
type unrecoverableWithLookAhead struct{ unrecoverableParser }

func (unrecoverableWithLookAhead) LookAheadSet(state int) []string {
	return []string{"NUMBER", "ID"}
}

func Test_Run_UnrecoverableErrorMessageListsExpectedTokens(t *testing.T) {
	assert := assert.New(t)

	lex := &fakeLexer{toks: []Token{{Class: "z", Text: "z"}}}
	_, err := Run(unrecoverableWithLookAhead{}, lex, 0, "Error")
	var recErr *RecoveryError
	assert.ErrorAs(err, &recErr)
	assert.Equal([]string{"NUMBER", "ID"}, recErr.Expected)
	assert.Contains(recErr.Error(), "expected Number or Id")
}
