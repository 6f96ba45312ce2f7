// Package runtime is the small parsing runtime every generated parser
// links against (spec 6.4): a Parser interface the generated tables
// implement, plus the Run driver loop that owns the parse stack of
// (symbol, state) frames and the parallel attribute stack. Grounded on
// the teacher's lrParser.Parse (dekarrin-tunaq/internal/ictiobus/
// parse/lr.go) — same shift/reduce/accept dispatch over a state-stack
// and a parallel value stack, same "pop |β| symbols, push GOTO[t, A]"
// reduce shape — generalized from the teacher's hardcoded parse-tree
// construction to an opaque attribute-producing semantic action, and
// extended with the error-recovery walk spec section 4.7 describes
// (the teacher's own LRError case is a TODO stub, never implemented).
package runtime

import (
	"fmt"

	"github.com/dekarrin/lalrgen/internal/ictierr"
)

// Action is the outcome of consulting the action table for (state, token).
type Action int

const (
	ActionError Action = iota
	ActionShift
	ActionReduce
	ActionAccept
	ActionPredicated
)

// NextAction is the return value of Parser.NextAction. Alternatives holds
// the if/else-if chain of candidate productions when Action ==
// ActionPredicated (spec 4.6): Run tries each in order, evaluating its
// predicate against that candidate's own RHS slice, and reduces by the
// first one whose predicate holds (an entry with PredicateSet == false
// is the unpredicated fallback and always holds).
type NextAction struct {
	Action       Action
	ShiftState   int
	ProductionID int
	Alternatives []PredicatedAlt
}

// PredicatedAlt is one candidate reduction in a predicated action-table
// entry (spec 4.6's "if/else-if chain ... unpredicated item as fallback").
type PredicatedAlt struct {
	ProductionID int
	PredicateSet bool
}

// ProductionInfo is the production-data table entry a generated parser
// returns for a given production id (spec 6.4's production_data).
type ProductionInfo struct {
	LHS    string
	RHSLen int
}

// InjectFunc lets a semantic action push a synthetic token into the
// upcoming input stream (spec 4.6's $INJECT hook, SPEC_FULL.md
// supplemented feature 3).
type InjectFunc func(tokenClass, lexeme string)

// Parser is the contract a generated parser table implements (spec 6.4).
type Parser interface {
	NextAction(state int, token string) NextAction
	ProductionData(id int) ProductionInfo
	GotoState(lhs string, state int) (int, error)
	LookAheadSet(state int) []string
	ViableErrorRecoveryStates(token string) []int
	ErrorGotoState(state int) (int, bool)
	DoSemanticAction(id int, rhs []any, inject InjectFunc) (any, error)

	// EvaluatePredicate runs the production's guard predicate (spec 4.6's
	// "$N refers to the N-th RHS attribute") against that production's
	// own RHS slice, returning whether the reduction applies. lookahead
	// is the current input token's class, the value spec 4.6's `$?`
	// resolves to.
	EvaluatePredicate(prodID int, rhs []any, lookahead string) (bool, error)
}

// Token is one lexed input symbol, carrying enough position information
// to satisfy ictierr.Located for syntax-error reporting.
type Token struct {
	Class      string
	Text       string
	SourceLine int
	SourceCol  int
	SourceFull string
	EndOfInput bool
}

func (t Token) Line() int        { return t.SourceLine }
func (t Token) LinePos() int     { return t.SourceCol }
func (t Token) FullLine() string { return t.SourceFull }
func (t Token) Lexeme() string   { return t.Text }

// Lexer supplies the token stream Run consumes. A generated parser's
// cmd glue is expected to adapt its lexspec.Spec-backed scanner to this
// interface.
type Lexer interface {
	Next() (Token, error)
}

type frame struct {
	symbol string
	state  int
}

// RecoveryError is returned when error recovery exhausts the stack
// without finding a viable recovery state — spec 7: "if recovery is
// impossible, parsing aborts." Expected carries the lookahead set of the
// state that first rejected Token, for rendering an "expected X, Y, or Z"
// clause (spec 7's error messages).
type RecoveryError struct {
	Token    Token
	Expected []string
}

func (e *RecoveryError) Error() string {
	msg := fmt.Sprintf("cannot recover from unexpected %q", e.Token.Class)
	if clause := ictierr.ExpectedTokensMessage(e.Expected); clause != "" {
		msg += ", " + clause
	}
	return msg + ": no viable error-recovery state on the stack"
}

// Run drives the shift/reduce/accept/error loop described in spec 4.4's
// runtime contract, starting from startState, until Accept or an
// unrecoverable error. errorClass is the reserved Error non-terminal's
// name, pushed onto the symbol stack during recovery.
func Run(p Parser, lex Lexer, startState int, errorClass string) (any, error) {
	frames := []frame{{state: startState}}
	attrs := []any{}

	var injectQueue []Token
	inject := func(tokenClass, lexeme string) {
		injectQueue = append(injectQueue, Token{Class: tokenClass, Text: lexeme})
	}

	next := func() (Token, error) {
		if len(injectQueue) > 0 {
			tok := injectQueue[0]
			injectQueue = injectQueue[1:]
			return tok, nil
		}
		return lex.Next()
	}

	tok, err := next()
	if err != nil {
		return nil, err
	}

	for {
		s := frames[len(frames)-1].state
		act := p.NextAction(s, tok.Class)

		switch act.Action {
		case ActionShift:
			frames = append(frames, frame{symbol: tok.Class, state: act.ShiftState})
			attrs = append(attrs, tok.Text)
			tok, err = next()
			if err != nil {
				return nil, err
			}

		case ActionReduce:
			if err := performReduce(p, &frames, &attrs, act.ProductionID, inject); err != nil {
				return nil, err
			}

		case ActionPredicated:
			prodID, err := choosePredicatedAlt(p, act.Alternatives, attrs, tok.Class)
			if err != nil {
				return nil, err
			}
			if err := performReduce(p, &frames, &attrs, prodID, inject); err != nil {
				return nil, err
			}

		case ActionAccept:
			if len(attrs) == 0 {
				return nil, nil
			}
			return attrs[len(attrs)-1], nil

		default: // ActionError
			if err := recover_(p, &frames, &attrs, errorClass, tok); err != nil {
				return nil, err
			}
			tok, err = skipToViableTerminal(p, frames[len(frames)-1].state, tok, next)
			if err != nil {
				return nil, err
			}
		}
	}
}

// performReduce pops |RHS| frames, runs the production's semantic action,
// and pushes the GOTO frame for the reduced-to non-terminal (spec 6.4).
func performReduce(p Parser, frames *[]frame, attrs *[]any, prodID int, inject InjectFunc) error {
	pd := p.ProductionData(prodID)
	f, a := *frames, *attrs

	rhs := make([]any, pd.RHSLen)
	copy(rhs, a[len(a)-pd.RHSLen:])

	val, err := p.DoSemanticAction(prodID, rhs, inject)
	if err != nil {
		return err
	}

	f = f[:len(f)-pd.RHSLen]
	a = a[:len(a)-pd.RHSLen]

	toState, err := p.GotoState(pd.LHS, f[len(f)-1].state)
	if err != nil {
		return err
	}
	f = append(f, frame{symbol: pd.LHS, state: toState})
	a = append(a, val)

	*frames, *attrs = f, a
	return nil
}

// choosePredicatedAlt evaluates each candidate's predicate in order
// against its own RHS slice (spec 4.6: "stack-from-end indexing scheme"
// — equivalent here to the same trailing-|RHS| slice a plain reduce
// uses, since the stack has not yet been popped), returning the first
// whose predicate holds. An alternative with PredicateSet == false is the
// unpredicated fallback and always holds; spec section 9 guarantees it is
// ordered last by the reduction planner.
func choosePredicatedAlt(p Parser, alts []PredicatedAlt, attrs []any, lookahead string) (int, error) {
	for _, alt := range alts {
		if !alt.PredicateSet {
			return alt.ProductionID, nil
		}
		pd := p.ProductionData(alt.ProductionID)
		rhs := make([]any, pd.RHSLen)
		copy(rhs, attrs[len(attrs)-pd.RHSLen:])

		ok, err := p.EvaluatePredicate(alt.ProductionID, rhs, lookahead)
		if err != nil {
			return 0, err
		}
		if ok {
			return alt.ProductionID, nil
		}
	}
	return 0, fmt.Errorf("no predicated alternative matched and no unpredicated fallback was present")
}

// recover_ pops frames until one has a viable error-recovery state (spec
// 4.7), then pushes the reserved Error non-terminal onto the stack at
// that target state.
func recover_(p Parser, frames *[]frame, attrs *[]any, errorClass string, tok Token) error {
	expected := p.LookAheadSet((*frames)[len(*frames)-1].state)
	for len(*frames) > 0 {
		top := (*frames)[len(*frames)-1].state
		if target, ok := p.ErrorGotoState(top); ok {
			*frames = append(*frames, frame{symbol: errorClass, state: target})
			*attrs = append(*attrs, nil)
			return nil
		}
		*frames = (*frames)[:len(*frames)-1]
		if len(*attrs) > 0 {
			*attrs = (*attrs)[:len(*attrs)-1]
		}
	}
	return &RecoveryError{Token: tok, Expected: expected}
}

// skipToViableTerminal discards tokens until one is in the lookahead set
// of the current (post-recovery) state, per spec 4.7.
func skipToViableTerminal(p Parser, state int, tok Token, next func() (Token, error)) (Token, error) {
	viable := map[string]bool{}
	for _, t := range p.LookAheadSet(state) {
		viable[t] = true
	}
	for !viable[tok.Class] && !tok.EndOfInput {
		var err error
		tok, err = next()
		if err != nil {
			return tok, err
		}
	}
	return tok, nil
}

var _ ictierr.Located = Token{}
