// Package inspect is the `lalrgen inspect` interactive REPL over a built
// grammar's state table: type a state number to see its items, lookaheads,
// and actions; `:expected <state>` prints the state's viable lookahead
// set; `:symbols` dumps the symbol registry. Grounded on
// internal/input's InteractiveCommandReader (chzyer/readline wrapped in
// a small Close-able reader type), generalized from that package's
// single free-text "read a game command" loop to a small fixed command
// grammar of its own (a bare integer, or a `:`-prefixed directive).
package inspect

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/lalrgen/internal/automaton"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/reduce"
)

// Session holds the built grammar data a REPL run inspects.
type Session struct {
	Grammar   *ggrammar.Grammar
	Automaton *automaton.Automaton
	Plans     []*reduce.StatePlan

	rl *readline.Instance
}

// New opens the readline instance backing a Session. Close must be
// called when the REPL exits.
func New(g *ggrammar.Grammar, a *automaton.Automaton, plans []*reduce.StatePlan) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "lalrgen> "})
	if err != nil {
		return nil, fmt.Errorf("inspect: create readline config: %w", err)
	}
	return &Session{Grammar: g, Automaton: a, Plans: plans, rl: rl}, nil
}

// Close tears down readline resources.
func (s *Session) Close() error {
	return s.rl.Close()
}

// Run drives the REPL until EOF (Ctrl-D) or an explicit ":quit".
func (s *Session) Run(w io.Writer) error {
	planByID := map[int]*reduce.StatePlan{}
	for _, p := range s.Plans {
		planByID[p.StateID] = p
	}

	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == ":quit" || line == ":q":
			return nil
		case line == ":symbols":
			s.printSymbols(w)
		case strings.HasPrefix(line, ":expected "):
			s.printExpected(w, strings.TrimPrefix(line, ":expected "), planByID)
		default:
			s.printState(w, line, planByID)
		}
	}
}

func (s *Session) printSymbols(w io.Writer) {
	fmt.Fprintln(w, "terminals:", strings.Join(s.Grammar.Symbols.Terminals(), " "))
	fmt.Fprintln(w, "non-terminals:", strings.Join(s.Grammar.Symbols.NonTerminals(), " "))
}

func (s *Session) printExpected(w io.Writer, arg string, planByID map[int]*reduce.StatePlan) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintf(w, "not a state number: %q\n", arg)
		return
	}
	plan, ok := planByID[id]
	if !ok {
		fmt.Fprintf(w, "no such state: %d\n", id)
		return
	}
	var terms []string
	for t := range plan.Actions {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	fmt.Fprintln(w, strings.Join(terms, " "))
}

func (s *Session) printState(w io.Writer, arg string, planByID map[int]*reduce.StatePlan) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(w, "unrecognized input %q (expected a state number or a :command)\n", arg)
		return
	}
	if id < 0 || id >= len(s.Automaton.States) {
		fmt.Fprintf(w, "no such state: %d\n", id)
		return
	}
	st := s.Automaton.States[id]

	fmt.Fprintf(w, "state %d\n", st.ID)
	for _, it := range st.Items.Items() {
		p := s.Grammar.Productions[it.ProdID]
		fmt.Fprintf(w, "  %s (dot %d) %s\n", p.String(), it.Dot, st.Items.Lookahead(it))
	}
	if st.ErrorRecoveryState >= 0 {
		fmt.Fprintf(w, "  error-recovery -> %d\n", st.ErrorRecoveryState)
	}
	if plan, ok := planByID[id]; ok {
		var terms []string
		for t := range plan.Actions {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		for _, t := range terms {
			fmt.Fprintf(w, "  on %q: %s\n", t, plan.Actions[t].Render(s.Grammar))
		}
	}
}
