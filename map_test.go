package stripemap

import "testing"

func TestInsertFindRoundTrip(t *testing.T) {
	m := NewMap[int, string]()
	if ok := m.Insert(1, "one"); !ok {
		t.Fatal("Insert(1, one) on empty map returned false")
	}
	v, ok := m.Find(1)
	if !ok || v != "one" {
		t.Fatalf("Find(1) = (%q, %v), want (one, true)", v, ok)
	}
}

func TestInsertDuplicateLeavesValueUnchanged(t *testing.T) {
	m := NewMap[int, string]()
	m.Insert(1, "one")
	if ok := m.Insert(1, "uno"); ok {
		t.Fatal("second Insert(1, ...) returned true, want false")
	}
	v, _ := m.Find(1)
	if v != "one" {
		t.Fatalf("value after duplicate Insert = %q, want original %q", v, "one")
	}
}

func TestInsertOrAssignOverwritesOnSecondCall(t *testing.T) {
	m := NewMap[int, string]()
	if ok := m.InsertOrAssign(1, "one"); !ok {
		t.Fatal("first InsertOrAssign reported not-newly-inserted")
	}
	if ok := m.InsertOrAssign(1, "uno"); ok {
		t.Fatal("second InsertOrAssign reported newly-inserted")
	}
	v, _ := m.Find(1)
	if v != "uno" {
		t.Fatalf("Find(1) after second InsertOrAssign = %q, want uno", v)
	}
}

func TestEraseTwiceSecondReturnsFalse(t *testing.T) {
	m := NewMap[int, string]()
	m.Insert(1, "one")
	if ok := m.Erase(1); !ok {
		t.Fatal("first Erase(1) returned false")
	}
	if ok := m.Erase(1); ok {
		t.Fatal("second Erase(1) returned true")
	}
	if _, ok := m.Find(1); ok {
		t.Fatal("Find(1) succeeded after Erase")
	}
}

func TestUpdateOnlyAffectsExistingKey(t *testing.T) {
	m := NewMap[int, int]()
	if ok := m.Update(1, 100); ok {
		t.Fatal("Update on absent key returned true")
	}
	m.Insert(1, 1)
	if ok := m.Update(1, 100); !ok {
		t.Fatal("Update on present key returned false")
	}
	v, _ := m.Find(1)
	if v != 100 {
		t.Fatalf("Find(1) after Update = %d, want 100", v)
	}
}

func TestEraseFuncRespectsPredicate(t *testing.T) {
	m := NewMap[int, int]()
	m.Insert(1, 41)
	if ok := m.EraseFunc(1, func(v int) bool { return v > 100 }); !ok {
		t.Fatal("EraseFunc on present key returned false regardless of predicate")
	}
	if _, ok := m.Find(1); !ok {
		t.Fatal("EraseFunc removed entry despite predicate returning false")
	}
	if ok := m.EraseFunc(1, func(v int) bool { return v < 100 }); !ok {
		t.Fatal("EraseFunc(present, true-predicate) returned false")
	}
	if _, ok := m.Find(1); ok {
		t.Fatal("EraseFunc did not remove entry despite predicate returning true")
	}
}

func TestUpraseFuncInsertsAndConditionallyErases(t *testing.T) {
	m := NewMap[int, int]()
	inserted := m.UpraseFunc(1, func(int) bool { return true }, 7)
	if !inserted {
		t.Fatal("UpraseFunc on absent key returned false")
	}
	if v, ok := m.Find(1); !ok || v != 7 {
		t.Fatalf("Find(1) after UpraseFunc insert = (%d, %v), want (7, true)", v, ok)
	}

	inserted = m.UpraseFunc(1, func(existing int) bool { return existing == 7 }, 99)
	if inserted {
		t.Fatal("UpraseFunc on present key returned true (inserted)")
	}
	if _, ok := m.Find(1); ok {
		t.Fatal("UpraseFunc's fn returned true but key was not erased")
	}
}

func TestMustFindPanicsOnAbsentKey(t *testing.T) {
	m := NewMap[int, string]()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustFind on absent key did not panic")
		}
		if _, ok := r.(*KeyNotFoundError); !ok {
			t.Fatalf("MustFind panicked with %T, want *KeyNotFoundError", r)
		}
	}()
	m.MustFind(42)
}

func TestClearResetsSizeNotCapacity(t *testing.T) {
	m := NewMap[int, int](WithHashPower(8))
	for i := 0; i < 100; i++ {
		m.Insert(i, i)
	}
	capBefore := m.Capacity()
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", m.Len())
	}
	if _, ok := m.Find(0); ok {
		t.Fatal("Find succeeded after Clear")
	}
	if m.Capacity() != capBefore {
		t.Fatalf("Capacity() changed by Clear: before=%d after=%d", capBefore, m.Capacity())
	}
}

func TestClearAndFreeShrinksCapacity(t *testing.T) {
	m := NewMap[int, int](WithHashPower(8))
	for i := 0; i < 50; i++ {
		m.Insert(i, i)
	}
	m.ClearAndFree()
	if m.Len() != 0 {
		t.Fatalf("Len() after ClearAndFree = %d, want 0", m.Len())
	}
	if want := uint64(1); m.Capacity() != want {
		t.Fatalf("Capacity() after ClearAndFree = %d, want %d", m.Capacity(), want)
	}
}

// TestConstructionWithZeroHashPowerAcceptsInsert covers the hashPower=0
// boundary behavior: a single-bucket table still accepts at least one
// insert, triggering a grow on the next collision.
func TestConstructionWithZeroHashPowerAcceptsInsert(t *testing.T) {
	m := NewMap[int, int](WithHashPower(0))
	if ok := m.Insert(1, 1); !ok {
		t.Fatal("Insert into hashPower=0 map failed")
	}
	if ok := m.Insert(2, 2); !ok {
		t.Fatal("second Insert into hashPower=0 map failed (should trigger grow)")
	}
	if m.Capacity() <= 1 {
		t.Fatalf("Capacity() after forced grow = %d, want > 1", m.Capacity())
	}
}

// TestFillToLoadFactorOne covers the boundary where every bucket is
// occupied before any grow is forced.
func TestFillToLoadFactorOne(t *testing.T) {
	const hp = 10
	m := NewMap[int, int](WithHashPower(hp))
	n := int(m.Capacity())
	for i := 0; i < n; i++ {
		if ok := m.Insert(i, i); !ok {
			t.Fatalf("Insert(%d, ...) failed while filling to capacity", i)
		}
	}
	if m.LoadFactor() != 1.0 {
		t.Fatalf("LoadFactor() at full capacity = %f, want 1.0", m.LoadFactor())
	}
	for i := 0; i < n; i++ {
		if v, ok := m.Find(i); !ok || v != i {
			t.Fatalf("Find(%d) = (%d, %v), want (%d, true)", i, v, ok, i)
		}
	}
	if ok := m.Insert(n, n); !ok {
		t.Fatal("Insert past full capacity failed to trigger a grow")
	}
	if m.Capacity() <= uint64(n) {
		t.Fatalf("Capacity() after forced grow = %d, want > %d", m.Capacity(), n)
	}
}

// TestFillToCapacityAllFindable is scenario 1 from the testable
// properties, at a reduced scale suitable for a unit test: construct at
// a fixed hash power, insert exactly that many sequential keys, and
// check size/capacity/load-factor and every key's findability.
func TestFillToCapacityAllFindable(t *testing.T) {
	const hp = 12
	m := NewMap[int, int](WithHashPower(hp))
	n := int(m.Capacity())
	for i := 0; i < n; i++ {
		m.Insert(i, i)
	}
	if m.Len() != n {
		t.Fatalf("Len() = %d, want %d", m.Len(), n)
	}
	if m.Capacity() != uint64(n) {
		t.Fatalf("Capacity() = %d, want %d (no grow should have happened)", m.Capacity(), n)
	}
	if m.LoadFactor() != 1.0 {
		t.Fatalf("LoadFactor() = %f, want 1.0", m.LoadFactor())
	}
	for i := 0; i < n; i++ {
		if v, ok := m.Find(i); !ok || v != i {
			t.Fatalf("Find(%d) = (%d, %v), want (%d, true)", i, v, ok, i)
		}
	}
}

// TestGrowOnCollisionMonotonicCapacity is scenario 2: a map constructed
// with capacity 2 (hashPower 1), filled with 9 keys, should see capacity
// only ever advance (by doubling) as collisions force it, end up large
// enough to hold all 9 keys, and keep every inserted key findable
// throughout. The exact sequence of intermediate capacities depends on
// the (randomly seeded) default hasher's collision pattern, so unlike a
// fixed-hash reference this only asserts the shape guaranteed for any
// hasher: powers of two, non-decreasing, never landing below what 9
// entries require.
func TestGrowOnCollisionMonotonicCapacity(t *testing.T) {
	m := NewMap[int, int](WithHashPower(1))
	if got := m.Capacity(); got != 2 {
		t.Fatalf("initial Capacity() = %d, want 2", got)
	}

	lastCap := m.Capacity()
	for i := 1; i <= 9; i++ {
		if ok := m.Insert(i, i); !ok {
			t.Fatalf("Insert(%d, ...) failed", i)
		}
		cap := m.Capacity()
		if cap < lastCap {
			t.Fatalf("Capacity() decreased from %d to %d after inserting %d", lastCap, cap, i)
		}
		if cap&(cap-1) != 0 {
			t.Fatalf("Capacity() = %d after inserting %d, want a power of two", cap, i)
		}
		lastCap = cap
		for j := 1; j <= i; j++ {
			if v, ok := m.Find(j); !ok || v != j {
				t.Fatalf("Find(%d) = (%d, %v) after inserting up through %d, want (%d, true)", j, v, ok, i, j)
			}
		}
	}
	if m.Capacity() < 9 {
		t.Fatalf("final Capacity() = %d, want >= 9 to hold all inserted keys", m.Capacity())
	}
	for j := 10; j <= 16; j++ {
		if _, ok := m.Find(j); ok {
			t.Fatalf("Find(%d) succeeded for a key never inserted", j)
		}
	}
}
