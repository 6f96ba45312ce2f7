package genutil

import "strings"

// ArticleFor returns "a" or "an" appropriate for the given word, based on
// whether it starts with a vowel sound. It's a simple heuristic (first
// letter only) adequate for the token/non-terminal human-names that appear
// in "expected a NUMBER or an ID" style diagnostics.
func ArticleFor(word string, plural bool) string {
	if plural {
		return ""
	}
	if word == "" {
		return "a"
	}
	switch word[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an"
	default:
		return "a"
	}
}

// TextList joins items into a human-readable comma-separated list with conj
// before the last item and an Oxford comma when there are more than two,
// e.g. "NUMBER, ID, or '+'" for conj "or".
func TextList(items []string, conj string) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0]
	}
	if len(items) == 2 {
		return items[0] + " " + conj + " " + items[1]
	}
	cp := make([]string, len(items))
	copy(cp, items)
	cp[len(cp)-1] = conj + " " + cp[len(cp)-1]
	return strings.Join(cp, ", ")
}
