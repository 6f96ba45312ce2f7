// Package report renders the human-readable `.states` description file
// spec 6.1 requires alongside every generated parser: one section per
// automaton state listing its items, its action table row, its goto
// table row, its error-recovery target, and any unresolved conflicts.
// Grounded on the teacher's lalr1Table.String() (internal/_teacher_
// ictiobus/parse/lalr.go): same state/terminal/non-terminal grid shape
// rendered with rosed.InsertTableOpts, generalized from the teacher's
// fixed action-cell vocabulary (acc/shift/reduce) to also print
// predicated if/else-if chains (spec 4.6) and an error-recovery line the
// teacher's table never had a use for, since its own parser never
// implemented recovery.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/item"
	"github.com/dekarrin/lalrgen/internal/reduce"
	"github.com/dekarrin/rosed"
)

// States renders the full `.states` report for a, keyed against g's
// productions and plans' resolved actions.
func States(g *ggrammar.Grammar, a *automaton.Automaton, plans []*reduce.StatePlan) string {
	planByID := map[int]*reduce.StatePlan{}
	for _, p := range plans {
		planByID[p.StateID] = p
	}

	var b strings.Builder
	for _, s := range a.States {
		writeState(&b, g, s, planByID[s.ID])
		b.WriteString("\n")
	}
	return b.String()
}

func writeState(b *strings.Builder, g *ggrammar.Grammar, s *automaton.State, plan *reduce.StatePlan) {
	fmt.Fprintf(b, "State %d\n", s.ID)

	items := s.Items.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].ProdID < items[j].ProdID || (items[i].ProdID == items[j].ProdID && items[i].Dot < items[j].Dot) })
	for _, it := range items {
		la := s.Items.Lookahead(it)
		lookaheads := ""
		if la != nil {
			elems := la.Elements()
			sort.Strings(elems)
			lookaheads = " , {" + strings.Join(elems, "/") + "}"
		}
		fmt.Fprintf(b, "  %s%s\n", itemString(g, it), lookaheads)
	}

	if s.ErrorRecoveryState >= 0 {
		fmt.Fprintf(b, "  error-recovery -> %d\n", s.ErrorRecoveryState)
	}

	if len(s.Conflicts) > 0 {
		b.WriteString("  conflicts:\n")
		for _, c := range s.Conflicts {
			fmt.Fprintf(b, "    %s on %q: productions %v\n", c.Kind, c.Terminal, c.ProdIDs)
		}
	}

	b.WriteString(actionGotoTable(g, s, plan))
	b.WriteString("\n")
}

// itemString renders a dotted item as "LHS -> a b . c d", matching the
// teacher's LR0Item.String convention (dekarrin-tunaq/internal/ictiobus/
// grammar's LR0Item), since ggrammar.Production has no dot position of
// its own.
func itemString(g *ggrammar.Grammar, it item.Item) string {
	p := g.Productions[it.ProdID]
	rhs := make([]string, 0, len(p.RHS)+1)
	for i, sym := range p.RHS {
		if i == it.Dot {
			rhs = append(rhs, ".")
		}
		rhs = append(rhs, sym)
	}
	if it.Dot >= len(p.RHS) {
		rhs = append(rhs, ".")
	}
	return fmt.Sprintf("%s -> %s", p.LHS, strings.Join(rhs, " "))
}

func actionGotoTable(g *ggrammar.Grammar, s *automaton.State, plan *reduce.StatePlan) string {
	var terms []string
	for t := range s.Shift {
		terms = append(terms, t)
	}
	if plan != nil {
		for t := range plan.Actions {
			terms = append(terms, t)
		}
	}
	terms = dedupSorted(terms)

	var nonterms []string
	for nt := range s.Goto {
		nonterms = append(nonterms, nt)
	}
	sort.Strings(nonterms)

	headers := []string{"terminal", "action"}
	data := [][]string{headers}
	for _, t := range terms {
		data = append(data, []string{t, actionCell(g, s, plan, t)})
	}
	for _, nt := range nonterms {
		data = append(data, []string{nt, fmt.Sprintf("goto %d", s.Goto[nt])})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func actionCell(g *ggrammar.Grammar, s *automaton.State, plan *reduce.StatePlan, t string) string {
	if target, ok := s.Shift[t]; ok {
		return fmt.Sprintf("shift %d", target)
	}
	if plan == nil {
		return ""
	}
	e, ok := plan.Actions[t]
	if !ok {
		return ""
	}
	return e.Render(g)
}

func dedupSorted(in []string) []string {
	set := map[string]bool{}
	for _, s := range in {
		set[s] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
