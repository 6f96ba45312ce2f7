// Package automaton builds the LALR(1) state graph (spec section 4.4):
// states keyed by dense integer id, each owning a closed item set, a shift
// table, a goto table, and an optional error-recovery target, built by
// iterative closure/goto-kernel expansion with kernel-equivalence folding.
// Grounded on the algorithm spec section 4.4 specifies directly and on the
// Rust original's state-construction loop (original_source/lap_gen/src/
// state.rs, ParserState/GrammarItemSet), since the teacher's own attempt at
// this same algorithm (dekarrin-tunaq/internal/ictiobus/parse/lalr.go,
// computeLALR1Kernels) ships with its core propagation pass commented out
// and is kept only as reference texture, not working logic.
package automaton

import "github.com/dekarrin/lalrgen/internal/item"

// Status is a state's processing flag (spec section 3).
type Status int

const (
	Unprocessed Status = iota
	NeedsReprocessing
	Processed
)

func (s Status) String() string {
	switch s {
	case Unprocessed:
		return "unprocessed"
	case NeedsReprocessing:
		return "needs-reprocessing"
	case Processed:
		return "processed"
	default:
		return "unknown"
	}
}

// State is one node of the LALR(1) automaton.
type State struct {
	ID    int
	Items *item.ItemSet

	Shift map[string]int // terminal -> state id
	Goto  map[string]int // non-terminal -> state id

	// ErrorRecoveryState is the id of the state reached by goto-ing the
	// reserved Error non-terminal from this state, or -1 if none (spec
	// 4.4: "if X is the Error non-terminal, record S' as S's
	// error-recovery state").
	ErrorRecoveryState int

	Status Status

	// Conflicts accumulates unresolved shift/reduce and reduce/reduce
	// records attached by the conflict resolver (spec 4.5); nil until
	// that pass runs.
	Conflicts []Conflict
}

// ConflictKind distinguishes the two conflict shapes.
type ConflictKind int

const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

func (k ConflictKind) String() string {
	if k == ShiftReduce {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict records one unresolved conflict for the states report (spec
// 4.8: "unresolved conflicts").
type Conflict struct {
	Kind     ConflictKind
	Terminal string
	ProdIDs  []int // the one or two productions in contention
}

func newState(id int, items *item.ItemSet) *State {
	return &State{
		ID:                 id,
		Items:              items,
		Shift:              map[string]int{},
		Goto:               map[string]int{},
		ErrorRecoveryState: -1,
		Status:             Unprocessed,
	}
}
