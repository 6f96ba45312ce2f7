package specparser

import (
	"github.com/dekarrin/lalrgen/internal/ictierr"
	"github.com/dekarrin/lalrgen/internal/lexspec"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// ReadFile loads the content of an %inject target. The caller supplies the
// implementation so tests can fake a filesystem; cmd/lalrgen wires this to
// os.ReadFile.
type ReadFile func(path string) (string, error)

// ruleAccumulator collects lexer rules in declaration order across both
// the configuration section (explicit %token/%skip) and the rules section
// (literals that appear directly in a production or precedence list
// without ever being named by a %token), since both can introduce a rule
// the final lexspec.Spec needs.
type ruleAccumulator struct {
	rules []*lexspec.Rule
	order int
}

func (ra *ruleAccumulator) add(kind lexspec.Kind, tokenName, pattern string) {
	ra.rules = append(ra.rules, &lexspec.Rule{Kind: kind, TokenName: tokenName, Pattern: pattern, Order: ra.order})
	ra.order++
}

// configResult is everything the configuration & definitions section
// (spec 6.1 point 2) contributes to a Result.
type configResult struct {
	Attr   string
	Target string
}

// parseConfig scans the configuration & definitions section, registering
// every token/tag into tab and accumulating lexer rules into ra in
// declaration order. readFile resolves %inject targets; a nil readFile
// rejects any %inject directive with an I/O error, matching spec 7's
// "injected-file open failure" taxonomy entry.
func parseConfig(filename, src string, tab *symbol.Table, ra *ruleAccumulator, readFile ReadFile) (*configResult, error) {
	s := newScanner(filename, src)
	res := &configResult{}

	for {
		s.skipSpaceAndComments()
		if s.eof() {
			break
		}
		line, col := s.position()
		loc := symbol.Location{File: filename, Line: line, Col: col}

		switch {
		case s.matchKeyword("%attr"):
			s.skipSpaceAndComments()
			id := s.matchIdent()
			if id == "" {
				return nil, s.errorf("%%attr requires an identifier")
			}
			res.Attr = id

		case s.matchKeyword("%target"):
			s.skipSpaceAndComments()
			id := s.matchIdent()
			if id == "" {
				return nil, s.errorf("%%target requires an identifier")
			}
			res.Target = id

		case s.matchKeyword("%token"):
			s.skipSpaceAndComments()
			name := s.matchIdent()
			if name == "" {
				return nil, s.errorf("%%token requires a name")
			}
			s.skipSpaceAndComments()
			if lit, ok := s.matchLiteral(); ok {
				if err := tab.DefineToken(name, lit, loc); err != nil {
					return nil, err
				}
				ra.add(lexspec.KindLiteral, name, lit)
				continue
			}
			if body, ok := s.matchDelimited('(', ')'); ok {
				if err := tab.DefineToken(name, "", loc); err != nil {
					return nil, err
				}
				ra.add(lexspec.KindRegex, name, body)
				continue
			}
			return nil, s.errorf("%%token %s requires a quoted literal or a (regex) body", name)

		case s.matchKeyword("%skip"):
			s.skipSpaceAndComments()
			body, ok := s.matchDelimited('(', ')')
			if !ok {
				return nil, s.errorf("%%skip requires a (regex) body")
			}
			ra.add(lexspec.KindSkip, "", body)

		case s.matchKeyword("%left"):
			names, err := collectNameList(s, tab, ra)
			if err != nil {
				return nil, err
			}
			if err := tab.SetPrecedences(symbol.Left, names, loc); err != nil {
				return nil, err
			}

		case s.matchKeyword("%right"):
			names, err := collectNameList(s, tab, ra)
			if err != nil {
				return nil, err
			}
			if err := tab.SetPrecedences(symbol.Right, names, loc); err != nil {
				return nil, err
			}

		case s.matchKeyword("%nonassoc"):
			names, err := collectNameList(s, tab, ra)
			if err != nil {
				return nil, err
			}
			if err := tab.SetPrecedences(symbol.NonAssoc, names, loc); err != nil {
				return nil, err
			}

		case s.matchKeyword("%inject"):
			s.skipSpaceAndComments()
			path, ok := s.matchLiteral()
			if !ok {
				return nil, s.errorf("%%inject requires a quoted path")
			}
			if readFile == nil {
				return nil, s.errorf("%%inject %q: no file reader configured", path)
			}
			content, err := readFile(path)
			if err != nil {
				return nil, ictierr.NewAt(ictierr.KindIO, ictierr.Position{Line: line, Col: col, FullLine: currentLine(src, s.pos)}, "could not open injected file %q: %v", path, err)
			}
			if content == "" {
				return nil, ictierr.NewAt(ictierr.KindSymbol, ictierr.Position{Line: line, Col: col, FullLine: currentLine(src, s.pos)}, "injected file %q is empty", path)
			}
			s.splice(content)

		default:
			return nil, s.errorf("unrecognized configuration directive near %q", peekWord(s))
		}
	}

	if err := tab.FinalizePrecedences(); err != nil {
		return nil, err
	}

	return res, nil
}

// collectNameList reads the space-separated run of bare identifiers or
// quoted literals following a %left/%right/%nonassoc keyword, resolving a
// literal to its token name — auto-defining one (and registering a
// matching lexer rule) if this is the literal's first appearance:
// spec.md's own worked examples, e.g. `%left "+" "-"`, never declare a
// %token for an operator literal first.
func collectNameList(s *scanner, tab *symbol.Table, ra *ruleAccumulator) ([]string, error) {
	var names []string
	for {
		s.skipSpaceAndComments()
		line, col := s.position()
		if lit, ok := s.matchLiteral(); ok {
			sym, isNew := tab.AutoDefineLiteral(lit, symbol.Location{File: s.filename, Line: line, Col: col})
			if isNew {
				ra.add(lexspec.KindLiteral, sym.Name, lit)
			}
			names = append(names, sym.Name)
			continue
		}
		id := s.matchIdent()
		if id == "" {
			break
		}
		names = append(names, id)
	}
	if len(names) == 0 {
		return nil, s.errorf("precedence directive requires at least one name")
	}
	return names, nil
}

func currentLine(src string, pos int) string {
	start := pos
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := pos
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return src[start:end]
}

func peekWord(s *scanner) string {
	end := s.pos
	for end < len(s.src) && s.src[end] != ' ' && s.src[end] != '\n' && s.src[end] != '\t' {
		end++
	}
	if end == s.pos {
		end = s.pos + 1
		if end > len(s.src) {
			end = len(s.src)
		}
	}
	return s.src[s.pos:end]
}
