package iteratable

import "testing"

func TestSetBasics(t *testing.T) {
	S := NewSet(0)
	if !S.Empty() {
		t.Errorf("new set should be empty")
	}
	S.Add("a")
	S.Add("b")
	S.Add("a") // no duplicates
	if S.Size() != 2 {
		t.Errorf("expected size 2, got %d", S.Size())
	}
	if !S.Contains("a") || S.Contains("c") {
		t.Errorf("membership broken")
	}
	S.Remove("a")
	if S.Contains("a") || S.Size() != 1 {
		t.Errorf("removal broken")
	}
}

func TestSetOperations(t *testing.T) {
	S := NewSet(0)
	S.Add(1)
	S.Add(2)
	T := NewSet(0)
	T.Add(2)
	T.Add(3)
	U := S.Copy().Union(T)
	if U.Size() != 3 {
		t.Errorf("union should have 3 items, got %d", U.Size())
	}
	D := U.Copy().Difference(T)
	if D.Size() != 1 || !D.Contains(1) {
		t.Errorf("difference should be {1}, got %v", D.Values())
	}
	E := U.Copy().Subset(func(item interface{}) bool {
		return item.(int)%2 == 1
	})
	if E.Size() != 2 || !E.Contains(1) || !E.Contains(3) {
		t.Errorf("subset should be {1,3}, got %v", E.Values())
	}
}

func TestSetEquals(t *testing.T) {
	S := NewSet(0)
	S.Add("x")
	S.Add("y")
	T := NewSet(0)
	T.Add("y")
	T.Add("x")
	if !S.Equals(T) {
		t.Errorf("sets with equal content in different order must be equal")
	}
	T.Add("z")
	if S.Equals(T) {
		t.Errorf("sets of different size must not be equal")
	}
}

// The property the closure computations rely on: items added during an
// exhausting iteration are delivered by the same iteration.
func TestExhaustingIteration(t *testing.T) {
	S := NewSet(0)
	S.Add(1)
	S.IterateOnce()
	seen := 0
	for S.Next() {
		n := S.Item().(int)
		seen++
		if n < 4 {
			S.Add(n + 1) // grow the work-list while iterating
		}
	}
	if seen != 4 || S.Size() != 4 {
		t.Errorf("expected the iteration to see 4 items, saw %d", seen)
	}
}
