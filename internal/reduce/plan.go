// Package reduce implements the reduction planner (spec section 4.6): per
// state, groups reducible items by the set of terminals that retain them
// after conflict resolution, and turns each group into either an Accept,
// a bare Reduce, or a predicated if/else-if chain with an unpredicated
// fallback declared last. Grounded on the action-table construction the
// spec describes directly; the teacher's own action table
// (dekarrin-tunaq/internal/ictiobus/parse/lr.go, actionTable type) never
// had to support predicated alternatives, so only its general "one entry
// per (state, terminal)" table shape is reused, not its construction
// logic.
package reduce

import (
	"sort"
	"strings"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
)

// Kind is the action an (state, terminal) pair resolves to.
type Kind int

const (
	KindShift Kind = iota
	KindAccept
	KindReduce
	KindPredicated
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindShift:
		return "shift"
	case KindAccept:
		return "accept"
	case KindReduce:
		return "reduce"
	case KindPredicated:
		return "predicated"
	default:
		return "error"
	}
}

// Alternative is one arm of a predicated reduction chain.
type Alternative struct {
	ProdID    int
	Predicate string // empty for the unpredicated fallback
}

// Entry is the fully-resolved action for one (state, terminal) pair.
type Entry struct {
	Kind Kind

	ShiftTarget int // valid when Kind == KindShift
	ProdID      int // valid when Kind == KindReduce or KindAccept

	// Alternatives holds the if/else-if chain when Kind == KindPredicated,
	// predicated arms first and the single unpredicated fallback (if any)
	// declared last (spec 4.6 and section 9's "Predicate fallback
	// ordering").
	Alternatives []Alternative
}

// StatePlan is the full per-terminal action table for one state.
type StatePlan struct {
	StateID int
	Actions map[string]Entry
}

// FallbackConflictError is returned when a terminal group has more than
// one unpredicated reducible item — spec section 9 requires this be
// rejected at emission time, not silently resolved.
type FallbackConflictError struct {
	StateID  int
	Terminal string
	ProdIDs  []int
}

func (e *FallbackConflictError) Error() string {
	return "state has more than one unpredicated reduction sharing a lookahead terminal"
}

// Plan computes the StatePlan for every state of a. Shift entries come
// straight from each state's (already conflict-resolved) shift table;
// reduce/accept/predicated entries are derived from the reducible items'
// surviving lookahead sets.
func Plan(a *automaton.Automaton, g *ggrammar.Grammar) ([]*StatePlan, error) {
	plans := make([]*StatePlan, len(a.States))

	for _, s := range a.States {
		p := &StatePlan{StateID: s.ID, Actions: map[string]Entry{}}

		for t, target := range s.Shift {
			p.Actions[t] = Entry{Kind: KindShift, ShiftTarget: target}
		}

		groups := groupReducibleItemsByTerminal(s, g)

		terms := make([]string, 0, len(groups))
		for t := range groups {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		for _, t := range terms {
			items := groups[t]
			entry, err := buildEntry(s.ID, t, items, g)
			if err != nil {
				return nil, err
			}
			p.Actions[t] = entry
		}

		plans[s.ID] = p
	}

	return plans, nil
}

// groupReducibleItemsByTerminal computes, for every terminal in a state's
// reducible lookahead union, the set of reducible production ids that
// retain that terminal after conflict resolution (spec 4.6).
func groupReducibleItemsByTerminal(s *automaton.State, g *ggrammar.Grammar) map[string][]int {
	out := map[string][]int{}

	for _, it := range s.Items.Items() {
		if !it.IsReducible(g) {
			continue
		}
		la := s.Items.Lookahead(it)
		if la == nil {
			continue
		}
		for _, t := range la.Elements() {
			out[t] = append(out[t], it.ProdID)
		}
	}

	for t := range out {
		sort.Ints(out[t])
	}
	return out
}

func buildEntry(stateID int, terminal string, prodIDs []int, g *ggrammar.Grammar) (Entry, error) {
	if len(prodIDs) == 1 {
		if prodIDs[0] == ggrammar.StartProductionID {
			return Entry{Kind: KindAccept, ProdID: prodIDs[0]}, nil
		}
		if g.Productions[prodIDs[0]].Predicate == "" {
			return Entry{Kind: KindReduce, ProdID: prodIDs[0]}, nil
		}
		// A single predicated alternative with no competing reduction
		// still needs its predicate honored as a fallback chain of one:
		// unresolved if the predicate is false means the parse errors.
		return Entry{Kind: KindPredicated, Alternatives: []Alternative{
			{ProdID: prodIDs[0], Predicate: g.Productions[prodIDs[0]].Predicate},
		}}, nil
	}

	var alts []Alternative
	var fallback *Alternative
	for _, id := range prodIDs {
		p := g.Productions[id]
		if p.Predicate == "" {
			if fallback != nil {
				return Entry{}, &FallbackConflictError{StateID: stateID, Terminal: terminal, ProdIDs: prodIDs}
			}
			f := Alternative{ProdID: id}
			fallback = &f
			continue
		}
		alts = append(alts, Alternative{ProdID: id, Predicate: p.Predicate})
	}
	if fallback != nil {
		alts = append(alts, *fallback)
	}

	return Entry{Kind: KindPredicated, Alternatives: alts}, nil
}

// Render renders an entry as a short human string, used by the states
// report writer.
func (e Entry) Render(g *ggrammar.Grammar) string {
	switch e.Kind {
	case KindShift:
		return "shift"
	case KindAccept:
		return "accept"
	case KindReduce:
		return "reduce " + g.Productions[e.ProdID].String()
	case KindPredicated:
		var parts []string
		for _, alt := range e.Alternatives {
			if alt.Predicate == "" {
				parts = append(parts, "else "+g.Productions[alt.ProdID].String())
			} else {
				parts = append(parts, "if "+alt.Predicate+" "+g.Productions[alt.ProdID].String())
			}
		}
		return strings.Join(parts, "; ")
	default:
		return "error"
	}
}
