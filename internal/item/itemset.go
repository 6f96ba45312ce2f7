package item

import (
	"sort"
	"strings"

	"github.com/dekarrin/lalrgen/internal/genutil"
	"github.com/dekarrin/lalrgen/internal/ggrammar"
)

// ItemSet is a mapping from item to lookahead set (spec section 3:
// "ItemSet. A mapping from item -> lookahead set"). The zero value is not
// usable; use NewItemSet.
type ItemSet struct {
	lookahead map[Item]*genutil.StringSet
}

// NewItemSet returns an empty item set.
func NewItemSet() *ItemSet {
	return &ItemSet{lookahead: map[Item]*genutil.StringSet{}}
}

// Add unions la into the item's lookahead set, creating the entry if
// absent. Returns whether the item's lookahead set grew (new item, or an
// existing item's set gained members) — the signal the state builder uses
// to decide whether an already-Processed state needs NeedsReprocessing
// (spec 4.4).
func (s *ItemSet) Add(it Item, la *genutil.StringSet) bool {
	existing, ok := s.lookahead[it]
	if !ok {
		s.lookahead[it] = la.Copy()
		return true
	}
	before := existing.Len()
	existing.AddAll(la)
	return existing.Len() != before
}

// Lookahead returns the lookahead set for it, or nil if it is not a member.
func (s *ItemSet) Lookahead(it Item) *genutil.StringSet {
	return s.lookahead[it]
}

// Has reports whether it is a member of the set.
func (s *ItemSet) Has(it Item) bool {
	_, ok := s.lookahead[it]
	return ok
}

// Items returns every item in the set, ordered by (production-id, dot) per
// the spec section 9 total order.
func (s *ItemSet) Items() []Item {
	out := make([]Item, 0, len(s.lookahead))
	for it := range s.lookahead {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Len returns the number of items in the set.
func (s *ItemSet) Len() int {
	return len(s.lookahead)
}

// KernelItems returns the kernel subset of Items, in the same total order.
func (s *ItemSet) KernelItems(g *ggrammar.Grammar) []Item {
	var out []Item
	for _, it := range s.Items() {
		if it.IsKernel(g) {
			out = append(out, it)
		}
	}
	return out
}

// KernelKey returns a string uniquely identifying the set's kernel items,
// independent of lookahead contents — two item sets are kernel-equivalent
// (spec section 3) iff their KernelKey values are equal. Built from the
// sorted kernel item list, so it is stable across runs regardless of
// insertion order.
func (s *ItemSet) KernelKey(g *ggrammar.Grammar) string {
	kernel := s.KernelItems(g)
	parts := make([]string, len(kernel))
	for i, it := range kernel {
		parts[i] = it.String()
	}
	return strings.Join(parts, "|")
}

// MergeLookaheads unions every item's lookahead from other into s,
// returning whether any set grew — used by the state builder's
// kernel-equivalence folding step (spec 4.4: "merge K's lookaheads into
// S'; if that enlarged any set... mark it NeedsReprocessing").
func (s *ItemSet) MergeLookaheads(other *ItemSet) bool {
	grew := false
	for _, it := range other.Items() {
		if s.Add(it, other.Lookahead(it)) {
			grew = true
		}
	}
	return grew
}

// Copy returns a deep copy of s.
func (s *ItemSet) Copy() *ItemSet {
	cp := NewItemSet()
	for _, it := range s.Items() {
		cp.lookahead[it] = s.lookahead[it].Copy()
	}
	return cp
}
