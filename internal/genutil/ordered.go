package genutil

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// StringSet is an ordered set of strings backed by a red-black tree, so
// that iterating it (via Elements) always yields a deterministic,
// alphabetically-sorted order. This is the container used everywhere the
// specification requires determinism across runs: terminal lookahead
// sets, FIRST sets, and symbol-name enumerations (spec section 9,
// "ordered sets/maps everywhere").
type StringSet struct {
	t *treeset.Set
}

// NewStringSet creates an empty ordered string set, optionally seeded with
// the given elements.
func NewStringSet(elems ...string) *StringSet {
	s := &StringSet{t: treeset.NewWith(utils.StringComparator)}
	for _, e := range elems {
		s.t.Add(e)
	}
	return s
}

// Add inserts v into the set. No-op if already present.
func (s *StringSet) Add(v string) {
	s.t.Add(v)
}

// AddAll inserts every element of o into s.
func (s *StringSet) AddAll(o *StringSet) {
	if o == nil {
		return
	}
	for _, v := range o.Elements() {
		s.t.Add(v)
	}
}

// Has returns whether v is a member of the set.
func (s *StringSet) Has(v string) bool {
	return s.t.Contains(v)
}

// Remove deletes v from the set, if present.
func (s *StringSet) Remove(v string) {
	s.t.Remove(v)
}

// Len returns the number of elements in the set.
func (s *StringSet) Len() int {
	return s.t.Size()
}

// Empty returns whether the set has no elements.
func (s *StringSet) Empty() bool {
	return s.t.Empty()
}

// Elements returns the set's contents in ascending sorted order.
func (s *StringSet) Elements() []string {
	vals := s.t.Values()
	out := make([]string, len(vals))
	for i := range vals {
		out[i] = vals[i].(string)
	}
	return out
}

// Copy returns a shallow copy of s.
func (s *StringSet) Copy() *StringSet {
	cp := NewStringSet()
	cp.AddAll(s)
	return cp
}

// Union returns a new set containing every element of s and o.
func (s *StringSet) Union(o *StringSet) *StringSet {
	cp := s.Copy()
	cp.AddAll(o)
	return cp
}

// DisjointWith returns whether s and o share no elements.
func (s *StringSet) DisjointWith(o *StringSet) bool {
	for _, v := range s.Elements() {
		if o.Has(v) {
			return false
		}
	}
	return true
}

// Equal returns whether s and o contain exactly the same elements.
func (s *StringSet) Equal(o *StringSet) bool {
	if o == nil {
		return s.Empty()
	}
	if s.Len() != o.Len() {
		return false
	}
	for _, v := range s.Elements() {
		if !o.Has(v) {
			return false
		}
	}
	return true
}

// String renders the set as "{a, b, c}" in sorted order.
func (s *StringSet) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	elems := s.Elements()
	for i, e := range elems {
		sb.WriteString(e)
		if i+1 < len(elems) {
			sb.WriteString(", ")
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// OrderedKeys returns the keys of m in ascending sorted order. Used at every
// point a map would otherwise be ranged over directly, to keep emitted
// tables and diagnostic output deterministic across runs.
func OrderedKeys[V any](m map[string]V) []string {
	s := NewStringSet()
	for k := range m {
		s.Add(k)
	}
	return s.Elements()
}
