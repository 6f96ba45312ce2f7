package lexspec

import (
	"fmt"
)

// Spec is an ordered collection of lexer rules: the literal rules, regex
// rules, and skip rules declared in a grammar specification's
// configuration section, in declaration order.
type Spec struct {
	Rules []*Rule
}

// NewSpec compiles every rule and returns the ready-to-scan Spec.
func NewSpec(rules []*Rule) (*Spec, error) {
	for _, r := range rules {
		if err := r.Compile(); err != nil {
			return nil, err
		}
	}
	return &Spec{Rules: rules}, nil
}

// Token is one scanned lexeme: its originating rule's token name (empty
// for a discarded skip match) and the exact matched text.
type Token struct {
	TokenName string
	Lexeme    string
	Skipped   bool
}

// ScanError reports that no rule matched at the current input position.
type ScanError struct {
	Remaining string
}

func (e *ScanError) Error() string {
	head := e.Remaining
	if len(head) > 20 {
		head = head[:20] + "..."
	}
	return fmt.Sprintf("no lexer rule matches input starting at %q", head)
}

// Next scans a single token (or skip match) from the start of remaining,
// applying the spec's tie-break policy (spec section 9): the longest
// match wins; ties between a literal rule and a regex rule are broken
// toward the literal; remaining ties are broken toward the
// earlier-declared rule. Returns the token (possibly Skipped), the number
// of bytes consumed, and an error if no rule matches.
func (s *Spec) Next(remaining string) (Token, int, error) {
	if remaining == "" {
		return Token{}, 0, nil
	}

	var best *Rule
	bestLen := -1

	for _, r := range s.Rules {
		n := r.matchLen(remaining)
		if n < 0 {
			continue
		}
		if n > bestLen {
			best, bestLen = r, n
			continue
		}
		if n == bestLen && best != nil {
			if r.Kind == KindLiteral && best.Kind != KindLiteral {
				best = r
			}
			// otherwise keep the earlier-declared rule already held in
			// best, since s.Rules is walked in declaration order.
		}
	}

	if best == nil {
		return Token{}, 0, &ScanError{Remaining: remaining}
	}

	lexeme := remaining[:bestLen]
	if best.Kind == KindSkip {
		return Token{Skipped: true, Lexeme: lexeme}, bestLen, nil
	}
	return Token{TokenName: best.TokenName, Lexeme: lexeme}, bestLen, nil
}

// ScanAll scans every token out of input in order, discarding skip
// matches, and returns them alongside any scan error encountered partway
// through (the tokens collected before the failure are still returned).
func (s *Spec) ScanAll(input string) ([]Token, error) {
	var out []Token
	remaining := input
	for remaining != "" {
		tok, n, err := s.Next(remaining)
		if err != nil {
			return out, err
		}
		if n == 0 {
			break
		}
		remaining = remaining[n:]
		if !tok.Skipped {
			out = append(out, tok)
		}
	}
	return out, nil
}
