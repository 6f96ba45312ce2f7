package specparser

import (
	"regexp"
	"strings"

	"github.com/dekarrin/lalrgen/internal/ggrammar"
	"github.com/dekarrin/lalrgen/internal/ictierr"
	"github.com/dekarrin/lalrgen/internal/lexspec"
	"github.com/dekarrin/lalrgen/internal/symbol"
)

// Result is everything a grammar specification file yields: the verbatim
// preamble text, the attribute/target names, the compiled lexer, the
// assembled grammar, and any warnings collected along the way.
type Result struct {
	Preamble string
	Attr     string
	Target   string

	Lexer   *lexspec.Spec
	Grammar *ggrammar.Grammar

	Warnings []string
}

// sectionSplitRe finds the single `%%` line separating the configuration &
// definitions section (with its optional leading %{ … %} preamble block)
// from the production rules section (spec 6.1: "structured into three
// sections separated by %%" — the preamble's own delimiters are %{ / %},
// so exactly one %% line appears in a well-formed file).
var sectionSplitRe = regexp.MustCompile(`(?m)^[ \t]*%%[ \t]*$`)

// Parse parses the full text of a grammar specification file (name is used
// only for diagnostics). readFile resolves %inject targets in the
// configuration section; pass nil if the spec under parse is known not to
// use %inject (e.g. in tests).
func Parse(name, src string, readFile ReadFile) (*Result, error) {
	loc := sectionSplitRe.FindStringIndex(src)
	if loc == nil {
		return nil, ictierr.New(ictierr.KindSyntactic, "%s: missing '%%%%' section separator between configuration and production rules", name)
	}
	head := src[:loc[0]]
	rulesSrc := src[loc[1]:]

	preamble, configSrc := splitPreamble(head)

	tab := symbol.NewTable()
	ra := &ruleAccumulator{}
	cfg, err := parseConfig(name, configSrc, tab, ra, readFile)
	if err != nil {
		return nil, err
	}

	prods, err := parseRules(name, rulesSrc, tab, ra)
	if err != nil {
		return nil, err
	}
	if len(prods) == 0 {
		return nil, ictierr.New(ictierr.KindStructural, "%s: grammar declares no production rules", name)
	}

	lexer, err := lexspec.NewSpec(ra.rules)
	if err != nil {
		return nil, err
	}

	start := prods[0].LHS
	gram := ggrammar.NewGrammar(tab, start, prods)
	if err := gram.Validate(); err != nil {
		return nil, err
	}

	return &Result{
		Preamble: preamble,
		Attr:     cfg.Attr,
		Target:   cfg.Target,
		Lexer:    lexer,
		Grammar:  gram,
		Warnings: tab.Warnings,
	}, nil
}

// splitPreamble extracts an optional leading %{ … %} block from head,
// returning its trimmed body and the remaining configuration text (with
// the block removed, so directive scanning starts right after it).
func splitPreamble(head string) (preamble string, rest string) {
	trimmedLeft := strings.TrimLeft(head, " \t\r\n")
	if !strings.HasPrefix(trimmedLeft, "%{") {
		return "", head
	}
	consumedLeading := len(head) - len(trimmedLeft)
	body := trimmedLeft[2:]
	end := strings.Index(body, "%}")
	if end < 0 {
		return strings.TrimSpace(body), ""
	}
	preamble = strings.TrimSpace(body[:end])
	rest = head[:consumedLeading] // nothing before %{ carries config content
	rest += body[end+2:]
	return preamble, rest
}
