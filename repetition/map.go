package repetition

import (
	"cmp"
	"encoding/binary"
	"slices"
)

// Interval is the half-open index range [Start, End).
type Interval struct {
	Start int
	End   int
}

func (iv Interval) Len() int {
	return iv.End - iv.Start
}

func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

func compareIntervals(a, b Interval) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Group holds one repeated token tuple and every interval it was found at,
// sorted by start.
type Group[T comparable] struct {
	Tokens    []T
	Intervals []Interval
}

// Map groups occurrence intervals by their token content. Token tuples are
// interned to a byte key since slices cannot key a Go map.
type Map[T comparable] struct {
	ids    map[T]uint64
	index  map[string]int
	groups []Group[T]
}

func newMap[T comparable]() *Map[T] {
	return &Map[T]{
		ids:   make(map[T]uint64),
		index: make(map[string]int),
	}
}

func (m *Map[T]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.groups)
}

// Groups returns a copy of every group in the order its key was first seen.
func (m *Map[T]) Groups() []Group[T] {
	if m == nil {
		return nil
	}
	out := make([]Group[T], len(m.groups))
	for i, g := range m.groups {
		out[i] = Group[T]{
			Tokens:    slices.Clone(g.Tokens),
			Intervals: slices.Clone(g.Intervals),
		}
	}
	return out
}

func (m *Map[T]) Lookup(tokens []T) (Group[T], bool) {
	if m == nil {
		return Group[T]{}, false
	}
	key, ok := m.lookupKey(tokens)
	if !ok {
		return Group[T]{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Group[T]{}, false
	}
	g := m.groups[i]
	return Group[T]{Tokens: slices.Clone(g.Tokens), Intervals: slices.Clone(g.Intervals)}, true
}

func (m *Map[T]) lookupKey(tokens []T) (string, bool) {
	buf := make([]byte, 0, len(tokens)*2)
	for _, tok := range tokens {
		id, ok := m.ids[tok]
		if !ok {
			return "", false
		}
		buf = binary.AppendUvarint(buf, id)
	}
	return string(buf), true
}

func (m *Map[T]) internKey(tokens []T) string {
	buf := make([]byte, 0, len(tokens)*2)
	for _, tok := range tokens {
		id, ok := m.ids[tok]
		if !ok {
			id = uint64(len(m.ids))
			m.ids[tok] = id
		}
		buf = binary.AppendUvarint(buf, id)
	}
	return string(buf)
}

// add unions intervals into the occurrence set of tokens.
func (m *Map[T]) add(tokens []T, intervals ...Interval) {
	key := m.internKey(tokens)
	i, ok := m.index[key]
	if !ok {
		i = len(m.groups)
		m.index[key] = i
		m.groups = append(m.groups, Group[T]{Tokens: slices.Clone(tokens)})
	}
	g := &m.groups[i]
	for _, iv := range intervals {
		at, found := slices.BinarySearchFunc(g.Intervals, iv, compareIntervals)
		if !found {
			g.Intervals = slices.Insert(g.Intervals, at, iv)
		}
	}
}
