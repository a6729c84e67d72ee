// Package highlight owns the shared emphasis state of a view and the
// scroll-driven storyboard that sets it.
package highlight

import "sort"

// Set is an immutable set of track ids. The zero value is the empty set,
// which means "no emphasis".
type Set struct {
	ids []int // sorted, unique
}

func NewSet(ids ...int) Set {
	if len(ids) == 0 {
		return Set{}
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	out := sorted[:1]
	for _, id := range sorted[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return Set{ids: out}
}

func (s Set) Has(id int) bool {
	i := sort.SearchInts(s.ids, id)
	return i < len(s.ids) && s.ids[i] == id
}

func (s Set) Empty() bool { return len(s.ids) == 0 }
func (s Set) Len() int    { return len(s.ids) }

// IDs returns a copy of the members in ascending order.
func (s Set) IDs() []int {
	return append([]int(nil), s.ids...)
}

func (s Set) Equal(o Set) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != o.ids[i] {
			return false
		}
	}
	return true
}
