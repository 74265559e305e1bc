/*
Package sparse implements a simple type for sparse integer matrices.
It is used for the LR parser tables (GOTO-table and ACTION-table).
Every entry in the table is either a single int32 or a pair (int32,int32);
pairs occur where a table position has been assigned conflicting actions.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import "fmt"

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// IntMatrix is a type for a sparse matrix of integer values. Construct with
//
//     M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     M.Add(2, 3, 123)               // add a second value at the position
//     cnt := M.ValueCount()          // still returns 1 (one position set)
//     v = M.Value(10, 10)            // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value.
// Triplets are kept sorted by (row, column), which makes enumeration with
// Each deterministic.
type IntMatrix struct {
	triplets []triplet
	rowcnt   int
	colcnt   int
	nullval  int32
}

type triplet struct {
	row, col int
	value    pair
}

// Entries hold up to 2 values per position.
type pair struct {
	a, b int32
}

// NewIntMatrix creates a new matrix for int32 values, size m x n. The 3rd
// argument is a null-value, indicating empty entries (use DefaultNullValue if
// you haven't any specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		triplets: []triplet{},
		rowcnt:   m,
		colcnt:   n,
		nullval:  nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value.
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of occupied positions in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.triplets)
}

// Value returns the primary value at position (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	if t, ok := m.find(i, j); ok {
		return t.value.a
	}
	return m.nullval
}

// Values returns the pair of values at position (i,j), or
// (NullValue, NullValue).
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if t, ok := m.find(i, j); ok {
		return t.value.a, t.value.b
	}
	return m.nullval, m.nullval
}

// Set a value in the matrix at position (i,j), overwriting any values stored
// there.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, false)
}

// Add a value in the matrix at position (i,j). If a value is already present,
// the position will hold a pair of values afterwards.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, true)
}

// Each calls f for every occupied position of the matrix, in (row, column)
// order. Secondary values of pairs are passed as b, or NullValue.
func (m *IntMatrix) Each(f func(i, j int, a, b int32)) {
	for _, t := range m.triplets {
		f(t.row, t.col, t.value.a, t.value.b)
	}
}

func (m *IntMatrix) String() string {
	return fmt.Sprintf("IntMatrix(%dx%d|%d)", m.rowcnt, m.colcnt, len(m.triplets))
}

func (m *IntMatrix) find(i, j int) (triplet, bool) {
	for _, t := range m.triplets {
		if t.before(i, j) { // skip all lesser indices
			continue
		}
		if t.at(i, j) {
			return t, true
		}
		break
	}
	return triplet{}, false
}

func (m *IntMatrix) setOrAdd(i, j int, value int32, doAdd bool) *IntMatrix {
	at := 0 // will be position of new triplet
	for k, t := range m.triplets {
		if t.before(i, j) {
			at++
			continue
		}
		if t.at(i, j) { // position already occupied
			if doAdd {
				m.triplets[k].value = m.triplets[k].value.put(value, m.nullval)
			} else {
				m.triplets[k].value = pair{value, m.nullval}
			}
			return m
		}
		break // no old value present, insert at k
	}
	tnew := triplet{row: i, col: j, value: pair{value, m.nullval}}
	m.triplets = append(m.triplets, tnew)        // make room
	copy(m.triplets[at+1:], m.triplets[at:])     // shift the tail one to the right
	m.triplets[at] = tnew                        // works for the append-case, too
	return m
}

func (t triplet) before(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t triplet) at(i, j int) bool {
	return t.row == i && t.col == j
}

func (p pair) put(n int32, nullval int32) pair {
	if p.a == nullval {
		p.a = n
	} else if p.b == nullval {
		p.b = n
	} else {
		p.b = n // entry is full, overwrite the secondary
	}
	return p
}
