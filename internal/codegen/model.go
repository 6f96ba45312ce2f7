// Package codegen assembles a fully-analyzed grammar (symbol table,
// automaton, reduction plan, lexer spec) into the Go source of a parser
// that implements internal/runtime.Parser, emitted via text/template and
// normalized with go/format. Grounded on the pattern the nihei9-vartan
// driver template (other_examples/1a8443c1_nihei9-vartan__driver-
// template.go.go) uses — parse an embedded skeleton with go/parser,
// render data-table source with text/template, splice the two together,
// then re-parse and rename the package with go/format — generalized from
// that file's fixed grammarImpl/lexerImpl tables to the predicated
// action entries internal/reduce.Plan produces (spec 4.6), since that
// file is reference texture only (other_examples/, not a teacher) and
// never modeled predicates at all.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/lexspec"
	"github.com/dekarrin/lalrgen/internal/reduce"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// Model is the template-ready view of an analyzed grammar. Every field is
// pre-sorted/pre-rendered so the template itself stays free of control
// flow beyond ranging over slices.
type Model struct {
	Package    string
	Target     string // %target name, used as the generated parser type's name
	AttrGoType string // %attr value; "any" if unset

	StartState int
	ErrorClass string

	Terminals    []string
	NonTerminals []string

	LexRules []LexRule

	States  []StateModel
	ProdIDs []int
	Prods   map[int]ProdModel

	// ViableRecovery is the per-terminal viable-recovery-state mapping
	// spec 6.4's viable_error_recovery_states(token) operation requires:
	// for each terminal t, every state whose error-recovery target has t
	// in the lookahead of a reducible item ending in the reserved Error
	// non-terminal (spec 4.7).
	ViableRecovery []ViableRecoveryRow
}

// ViableRecoveryRow is one terminal's sorted list of viable recovery
// states.
type ViableRecoveryRow struct {
	Terminal string
	States   []int
}

// LexRule is one lexspec.Rule rendered for the generated scanner table.
type LexRule struct {
	TokenName string
	Pattern   string
	IsLiteral bool
	IsSkip    bool
}

// StateModel is one automaton state's action/goto rows.
type StateModel struct {
	ID                 int
	ErrorRecoveryState int
	HasErrorRecovery   bool
	Shift              []ShiftRow
	Goto               []GotoRow
	Actions            []ActionRow
	LookAhead          []string // every terminal with an action (shift, reduce, accept) in this state
}

type ShiftRow struct {
	Terminal string
	Target   int
}

type GotoRow struct {
	NonTerminal string
	Target      int
}

// ActionRow is one (state, terminal) resolved action, already flattened
// out of reduce.Entry's Kind-tagged union into the handful of shapes the
// template needs to switch on directly.
type ActionRow struct {
	Terminal string
	Kind     string // "reduce", "accept", "predicated"
	ProdID   int
	Alts     []AltModel
}

type AltModel struct {
	ProdID    int
	Predicate string // empty for the unpredicated fallback
}

// ProdModel is a production's RHS length and LHS name, plus its
// action/predicate text as spliced into the dispatcher (spec 6.1's
// `!{ ... !}` action blocks are themselves Go source fragments written
// against $1..$n and $$, which rewriteAction/rewriteRefs substitute
// textually before templating).
type ProdModel struct {
	ID        int
	LHS       string
	RHSLen    int
	Action    string
	Predicate string // rewritten Go boolean expression; empty if none
}

// Build assembles a Model from the fully analyzed grammar. pkgName is the
// generated file's package clause; target/attrGoType come from the
// specification's %target/%attr directives (spec 6.1).
func Build(pkgName string, g *ggrammar.Grammar, a *automaton.Automaton, plans []*reduce.StatePlan, lex *lexspec.Spec, target, attrGoType string) (*Model, error) {
	if attrGoType == "" {
		attrGoType = "any"
	}

	m := &Model{
		Package:    pkgName,
		Target:     target,
		AttrGoType: attrGoType,
		StartState: a.States[0].ID,
		ErrorClass: symbol.ErrorName,
		Prods:      map[int]ProdModel{},
	}

	m.Terminals = append(m.Terminals, g.Symbols.Terminals()...)
	sort.Strings(m.Terminals)
	m.NonTerminals = append(m.NonTerminals, g.Symbols.NonTerminals()...)
	sort.Strings(m.NonTerminals)

	for _, r := range lex.Rules {
		m.LexRules = append(m.LexRules, LexRule{
			TokenName: r.TokenName,
			Pattern:   r.Pattern,
			IsLiteral: r.Kind == lexspec.KindLiteral,
			IsSkip:    r.Kind == lexspec.KindSkip,
		})
	}

	for _, p := range g.Productions {
		m.ProdIDs = append(m.ProdIDs, p.ID)
		m.Prods[p.ID] = ProdModel{
			ID:        p.ID,
			LHS:       p.LHS,
			RHSLen:    len(p.RHS),
			Action:    rewriteAction(p.Action, len(p.RHS)),
			Predicate: rewriteRefs(p.Predicate, len(p.RHS)),
		}
	}
	sort.Ints(m.ProdIDs)

	byID := map[int]*automaton.State{}
	for _, s := range a.States {
		byID[s.ID] = s
	}
	planByID := map[int]*reduce.StatePlan{}
	for _, p := range plans {
		planByID[p.StateID] = p
	}

	stateIDs := make([]int, 0, len(a.States))
	for id := range byID {
		stateIDs = append(stateIDs, id)
	}
	sort.Ints(stateIDs)

	for _, id := range stateIDs {
		s := byID[id]
		sm := StateModel{
			ID:                 s.ID,
			ErrorRecoveryState: s.ErrorRecoveryState,
			HasErrorRecovery:   s.ErrorRecoveryState >= 0,
		}

		var shiftTerms []string
		for t := range s.Shift {
			shiftTerms = append(shiftTerms, t)
		}
		sort.Strings(shiftTerms)
		for _, t := range shiftTerms {
			sm.Shift = append(sm.Shift, ShiftRow{Terminal: t, Target: s.Shift[t]})
		}

		var gotoNTs []string
		for nt := range s.Goto {
			gotoNTs = append(gotoNTs, nt)
		}
		sort.Strings(gotoNTs)
		for _, nt := range gotoNTs {
			sm.Goto = append(sm.Goto, GotoRow{NonTerminal: nt, Target: s.Goto[nt]})
		}

		if plan := planByID[id]; plan != nil {
			var terms []string
			for t := range plan.Actions {
				terms = append(terms, t)
				sm.LookAhead = append(sm.LookAhead, t)
			}
			sort.Strings(terms)
			sort.Strings(sm.LookAhead)
			for _, t := range terms {
				e := plan.Actions[t]
				switch e.Kind {
				case reduce.KindShift:
					// already covered by sm.Shift
				case reduce.KindAccept:
					sm.Actions = append(sm.Actions, ActionRow{Terminal: t, Kind: "accept"})
				case reduce.KindReduce:
					sm.Actions = append(sm.Actions, ActionRow{Terminal: t, Kind: "reduce", ProdID: e.ProdID})
				case reduce.KindPredicated:
					var alts []AltModel
					for _, alt := range e.Alternatives {
						alts = append(alts, AltModel{ProdID: alt.ProdID, Predicate: alt.Predicate})
					}
					sm.Actions = append(sm.Actions, ActionRow{Terminal: t, Kind: "predicated", Alts: alts})
				}
			}
		}

		m.States = append(m.States, sm)
	}

	m.ViableRecovery = buildViableRecovery(g, a, byID)

	return m, nil
}

// buildViableRecovery computes, for every terminal t, the states whose
// error-recovery target has t in the lookahead of a reducible item ending
// in Error (spec 4.7) — the data runtime.Parser.ViableErrorRecoveryStates
// switches on.
func buildViableRecovery(g *ggrammar.Grammar, a *automaton.Automaton, byID map[int]*automaton.State) []ViableRecoveryRow {
	statesByTerminal := map[string]map[int]bool{}

	for _, s := range a.States {
		if s.ErrorRecoveryState < 0 {
			continue
		}
		target := byID[s.ErrorRecoveryState]
		if target == nil {
			continue
		}
		for _, it := range target.Items.Items() {
			if !it.IsReducible(g) {
				continue
			}
			if !g.Productions[it.ProdID].HasErrorTail() {
				continue
			}
			la := target.Items.Lookahead(it)
			if la == nil {
				continue
			}
			for _, t := range la.Elements() {
				if statesByTerminal[t] == nil {
					statesByTerminal[t] = map[int]bool{}
				}
				statesByTerminal[t][s.ID] = true
			}
		}
	}

	var terminals []string
	for t := range statesByTerminal {
		terminals = append(terminals, t)
	}
	sort.Strings(terminals)

	rows := make([]ViableRecoveryRow, 0, len(terminals))
	for _, t := range terminals {
		ids := make([]int, 0, len(statesByTerminal[t]))
		for id := range statesByTerminal[t] {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		rows = append(rows, ViableRecoveryRow{Terminal: t, States: ids})
	}
	return rows
}

// rewriteAction substitutes $1..$n with rhs[i-1] and $$ with the
// dispatcher's local result variable, so an action block written against spec 6.1's `!{ $$ = $1 + $3;
// !}` convention compiles as a plain Go statement list operating on the
// dispatcher's rhs []any slice. A production with no explicit action
// defaults to copying its first RHS attribute straight through (or nil
// for an empty RHS), the conventional no-action passthrough.
func rewriteAction(action string, rhsLen int) string {
	if action == "" {
		if rhsLen > 0 {
			action = fmt.Sprintf("%s = %s", "$$", dollarRef(1))
		} else {
			action = "$$ = nil"
		}
	}
	return rewriteRefs(action, rhsLen)
}

// rewriteRefs substitutes $1..$n with rhs[i-1], $$ with result, $? with
// the dispatcher's lookahead parameter, and $INJECT with the dispatcher's
// inject parameter, in any action or predicate fragment (spec 4.6's
// shared $N/$$/$?/$INJECT convention). $INJECT and $? are rewritten
// before $$ so that "$$" never matches inside either token.
func rewriteRefs(text string, rhsLen int) string {
	if text == "" {
		return ""
	}
	out := text
	for i := rhsLen; i >= 1; i-- {
		out = strings.ReplaceAll(out, dollarRef(i), dollar(i))
	}
	out = strings.ReplaceAll(out, "$INJECT", "inject")
	out = strings.ReplaceAll(out, "$?", "lookahead")
	out = strings.ReplaceAll(out, "$$", "result")
	return out
}

func dollarRef(i int) string { return fmt.Sprintf("$%d", i) }
func dollar(i int) string    { return fmt.Sprintf("rhs[%d]", i-1) }
