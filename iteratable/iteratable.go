/*
Package iteratable implements an iteratable container data structure.

Set is a special purpose set type, suitable mainly for implementing algorithms
around scanners, parsers, etc. These kinds of algorithms are often more
straightforward to describe as set constructions and operations. The work-list
loops of closure computation and canonical-collection enumeration add elements
to a set while iterating over it; Set supports this with an exhausting
iteration mode which delivers every element exactly once, including elements
added during the iteration.

Unusually, all set operations are destructive!

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable

// Set is an iteratable set of (comparable) items. The zero Set is not ready
// for use; create one with NewSet.
type Set struct {
	items  []interface{}
	cursor int // exhausting-iteration position, -1 if no iteration is active
}

// NewSet creates a new set with a capacity hint. A hint of 0 is fine.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		cursor: -1,
	}
}

// Size returns the number of items in the set.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty is true if the set contains no items.
func (s *Set) Empty() bool {
	return s.Size() == 0
}

// Contains checks set membership.
func (s *Set) Contains(item interface{}) bool {
	if s == nil {
		return false
	}
	for _, m := range s.items {
		if m == item {
			return true
		}
	}
	return false
}

// Add adds an item to the set, if it is not already present.
func (s *Set) Add(item interface{}) {
	if s.Contains(item) {
		return
	}
	s.items = append(s.items, item)
}

// Remove removes an item from the set, if present.
func (s *Set) Remove(item interface{}) {
	for i, m := range s.items {
		if m == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			if s.cursor >= 0 && i < s.cursor {
				s.cursor--
			}
			return
		}
	}
}

// Values returns the items of the set in insertion order. The returned slice
// is a copy and may be modified by the caller.
func (s *Set) Values() []interface{} {
	if s == nil {
		return nil
	}
	vals := make([]interface{}, len(s.items))
	copy(vals, s.items)
	return vals
}

// Each calls f for every item of the set.
func (s *Set) Each(f func(item interface{})) {
	if s == nil {
		return
	}
	for _, m := range s.items {
		f(m)
	}
}

// Copy creates a duplicate of the set.
func (s *Set) Copy() *Set {
	if s == nil {
		return NewSet(0)
	}
	c := NewSet(len(s.items))
	c.items = append(c.items, s.items...)
	return c
}

// Union adds all items of other to the set. It returns the receiver.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, m := range other.items {
		s.Add(m)
	}
	return s
}

// Difference removes all items contained in other from the set. As all set
// operations, it is destructive; it returns the receiver.
func (s *Set) Difference(other *Set) *Set {
	if s == nil || other == nil {
		return s
	}
	result := s.items[:0]
	for _, m := range s.items {
		if !other.Contains(m) {
			result = append(result, m)
		}
	}
	s.items = result
	return s
}

// Subset removes all items not matching the predicate. It returns the
// receiver.
func (s *Set) Subset(predicate func(item interface{}) bool) *Set {
	if s == nil {
		return nil
	}
	result := s.items[:0]
	for _, m := range s.items {
		if predicate(m) {
			result = append(result, m)
		}
	}
	s.items = result
	return s
}

// Equals checks two sets for equal content. Order of insertion does not
// matter.
func (s *Set) Equals(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	for _, m := range s.items {
		if !other.Contains(m) {
			return false
		}
	}
	return true
}

// First returns an arbitrary (the oldest) item of the set, or nil for an
// empty set.
func (s *Set) First() interface{} {
	if s.Empty() {
		return nil
	}
	return s.items[0]
}

// --- Exhausting iteration ---------------------------------------------------

// IterateOnce starts an exhausting iteration over the set: a subsequent
// sequence of Next/Item calls will deliver every item exactly once. Items
// added to the set while the iteration is running will be delivered, too.
// This is the natural shape for work-list algorithms.
func (s *Set) IterateOnce() {
	s.cursor = -1
}

// Next advances the iteration started with IterateOnce. It returns false as
// soon as no undelivered items remain.
func (s *Set) Next() bool {
	s.cursor++
	return s.cursor < len(s.items)
}

// Item returns the item at the current iteration position.
func (s *Set) Item() interface{} {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}
