package automaton

import (
	"github.com/dekarrin/lalrgen/internal/firstset"
	"github.com/dekarrin/lalrgen/internal/genutil"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/item"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// Automaton is the built LALR(1) state graph.
type Automaton struct {
	States []*State

	// byKernelKey maps a kernel-equivalence key to the id of the unique
	// state with that kernel (spec 8 invariant: "For every
	// kernel-equivalence class of ItemSets, there is exactly one state").
	byKernelKey map[string]int
}

// StateByID returns the state with the given id.
func (a *Automaton) StateByID(id int) *State {
	return a.States[id]
}

// Build runs the state-builder main loop (spec 4.4): starting from the
// closed initial kernel `{(Start -> . UserStart, {$end})}`, repeatedly
// computes goto-kernels for every distinct next-symbol of each unprocessed
// state, folding kernel-equivalent results together and merging their
// lookahead sets, until the work queue (states flagged Unprocessed or
// NeedsReprocessing) is empty.
func Build(g *ggrammar.Grammar, firsts *firstset.Table) *Automaton {
	a := &Automaton{byKernelKey: map[string]int{}}

	initSeed := item.NewItemSet()
	initSeed.Add(
		item.Item{ProdID: ggrammar.StartProductionID, Dot: 0},
		genutil.NewStringSet(symbol.EndOfInputName),
	)
	initKernel := item.Closure(g, firsts, initSeed)

	root := newState(0, initKernel)
	a.States = append(a.States, root)
	a.byKernelKey[initKernel.KernelKey(g)] = 0

	queue := []int{0}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		s := a.States[id]
		firstVisit := s.Status == Unprocessed

		for _, x := range item.NextSymbols(g, s.Items) {
			gotoKernel := item.GotoKernel(g, s.Items, x)
			if gotoKernel == nil {
				continue
			}
			closed := item.Closure(g, firsts, gotoKernel)
			key := closed.KernelKey(g)

			var targetID int
			if existingID, ok := a.byKernelKey[key]; ok {
				targetID = existingID
				target := a.States[targetID]
				grew := target.Items.MergeLookaheads(closed)
				if grew && target.Status == Processed {
					target.Status = NeedsReprocessing
					queue = append(queue, targetID)
				}
			} else {
				targetID = len(a.States)
				newS := newState(targetID, closed)
				a.States = append(a.States, newS)
				a.byKernelKey[key] = targetID
				queue = append(queue, targetID)
			}

			if firstVisit {
				if g.IsTerminal(x) {
					s.Shift[x] = targetID
				} else {
					s.Goto[x] = targetID
				}
				if x == symbol.ErrorName {
					s.ErrorRecoveryState = targetID
				}
			}
		}

		s.Status = Processed
	}

	return a
}
