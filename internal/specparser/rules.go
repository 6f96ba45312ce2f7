package specparser

import (
	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/lexspec"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// parseRules scans the production rules section (spec 6.1 point 3):
// `LHS : RHS_tail | RHS_tail | … .`, each tail optionally followed by a
// `?( predicate ?)`, a `%prec TAG`, and/or a `!{ action !}`, in that
// order. %error in an RHS resolves to the reserved Error non-terminal.
// Returns productions in declaration order, with tab.UseSymbol invoked for
// every RHS symbol reference so undefined-use tracking (spec 7) stays
// accurate.
func parseRules(filename, src string, tab *symbol.Table, ra *ruleAccumulator) ([]ggrammar.Production, error) {
	s := newScanner(filename, src)
	var prods []ggrammar.Production

	for {
		s.skipSpaceAndComments()
		if s.eof() {
			break
		}

		line, col := s.position()
		lhs := s.matchIdent()
		if lhs == "" {
			return nil, s.errorf("expected a non-terminal name to begin a production rule, found %q", peekWord(s))
		}
		tab.DefineNonTerminal(lhs, symbol.Location{File: filename, Line: line, Col: col})

		s.skipSpaceAndComments()
		if !s.matchLiteralString(":") {
			return nil, s.errorf("expected ':' after %q", lhs)
		}

		for {
			tail, err := parseTail(s, tab, ra, lhs)
			if err != nil {
				return nil, err
			}
			prods = append(prods, tail)

			s.skipSpaceAndComments()
			if s.matchLiteralString("|") {
				continue
			}
			if s.matchLiteralString(".") {
				break
			}
			return nil, s.errorf("expected '|' or '.' after production tail for %q", lhs)
		}
	}

	return prods, nil
}

// parseTail parses one RHS alternative: a space-separated run of RHS
// symbols, followed optionally by a predicate, a %prec tag, and an action,
// in that fixed order (spec 6.1).
func parseTail(s *scanner, tab *symbol.Table, ra *ruleAccumulator, lhs string) (ggrammar.Production, error) {
	p := ggrammar.Production{LHS: lhs}

	for {
		s.skipSpaceAndComments()
		line, col := s.position()
		loc := symbol.Location{File: s.filename, Line: line, Col: col}

		if s.matchKeyword("%error") {
			p.RHS = append(p.RHS, symbol.ErrorName)
			tab.UseSymbol(symbol.ErrorName, loc)
			continue
		}
		if lit, ok := s.matchLiteral(); ok {
			sym, isNew := tab.AutoDefineLiteral(lit, loc)
			if isNew {
				ra.add(lexspec.KindLiteral, sym.Name, lit)
			}
			p.RHS = append(p.RHS, sym.Name)
			continue
		}
		if id := s.matchIdent(); id != "" {
			tab.UseSymbol(id, loc)
			p.RHS = append(p.RHS, id)
			continue
		}
		break
	}

	s.skipSpaceAndComments()
	if pred, ok := s.matchMarkerBlock("?(", "?)"); ok {
		p.Predicate = pred
	}

	s.skipSpaceAndComments()
	if s.matchKeyword("%prec") {
		s.skipSpaceAndComments()
		tag := s.matchIdent()
		if tag == "" {
			return p, s.errorf("%%prec requires a tag name")
		}
		p.PrecTag = tag
	}

	s.skipSpaceAndComments()
	if act, ok := s.matchMarkerBlock("!{", "!}"); ok {
		p.Action = act
	}

	return p, nil
}
