package stripemap

// LockedMap is a frozen-snapshot view of a Map obtained via LockTable: it
// holds every stripe lock across every historical stripe-set generation,
// so no other operation on the originating Map can make progress until
// Unlock is called. It exposes storage-order forward/backward cursors
// over exactly the live (occupied, non-tombstone) slots at the moment
// LockTable was called.
type LockedMap[K comparable, V any] struct {
	m      *Map[K, V]
	tbl    *table[K, V]
	guard  *allLocksGuard
	closed bool
}

// LockTable acquires every stripe lock in the map and returns a frozen
// view over the current table. While the returned LockedMap is open, no
// Find/Insert/Update/Erase/resize call on m can proceed. Callers should
// call Unlock as soon as they are done iterating.
func (m *Map[K, V]) LockTable() *LockedMap[K, V] {
	guard := m.lockAll()
	return &LockedMap[K, V]{m: m, tbl: m.tbl.Load(), guard: guard}
}

// Unlock releases every stripe lock held by this snapshot, letting other
// operations on the originating Map resume. It is safe to call more than
// once.
func (lm *LockedMap[K, V]) Unlock() {
	if lm.closed {
		return
	}
	lm.closed = true
	lm.guard.unlock()
}

// Close is an alias for Unlock. It returns no error, so LockedMap does
// not implement io.Closer.
func (lm *LockedMap[K, V]) Close() { lm.Unlock() }

// Len returns the number of live entries in the frozen snapshot.
func (lm *LockedMap[K, V]) Len() int {
	return int(lm.tbl.node.stripes.size())
}

// Find looks up key in the frozen snapshot without acquiring any
// per-step lock (every stripe is already held for the duration of the
// snapshot).
func (lm *LockedMap[K, V]) Find(key K) (V, bool) {
	hv := lm.m.hashKey(key)
	idx, ok := snapshotFind(lm.tbl, key, hv, lm.m.equal)
	if !ok {
		var zero V
		return zero, false
	}
	return lm.tbl.buckets[idx].value, true
}

// Begin returns a cursor positioned at the first live slot in storage
// order, or an invalid (End-equivalent) cursor if the snapshot is empty.
func (lm *LockedMap[K, V]) Begin() *Cursor[K, V] {
	return newCursorAt(lm.tbl, 0)
}

// End returns a cursor positioned one past the last bucket index, the
// sentinel position Next() never advances beyond and Prev() walks
// backward from.
func (lm *LockedMap[K, V]) End() *Cursor[K, V] {
	return &Cursor[K, V]{tbl: lm.tbl, idx: lm.tbl.bucketCount()}
}

// Cursor walks a frozen snapshot's live slots in storage order. It is a
// bidirectional iterator: Next/Prev skip tombstones and empty slots.
type Cursor[K comparable, V any] struct {
	tbl *table[K, V]
	idx uint64
}

// newCursorAt builds a cursor at index, advancing forward off a
// tombstone or empty slot if necessary.
func newCursorAt[K comparable, V any](tbl *table[K, V], idx uint64) *Cursor[K, V] {
	c := &Cursor[K, V]{tbl: tbl, idx: idx}
	n := tbl.bucketCount()
	if c.idx != n {
		b := &tbl.buckets[c.idx]
		if !b.occupied || b.deleted {
			c.Next()
		}
	}
	return c
}

// Valid reports whether the cursor refers to a live slot.
func (c *Cursor[K, V]) Valid() bool {
	return c.idx < c.tbl.bucketCount()
}

// Key returns the key at the cursor's current position. The cursor must
// be Valid.
func (c *Cursor[K, V]) Key() K {
	return c.tbl.buckets[c.idx].key
}

// Value returns the value at the cursor's current position. The cursor
// must be Valid.
func (c *Cursor[K, V]) Value() V {
	return c.tbl.buckets[c.idx].value
}

// Next advances the cursor to the next live slot in storage order, or to
// the End position if none remains.
func (c *Cursor[K, V]) Next() {
	n := c.tbl.bucketCount()
	c.idx++
	for c.idx < n {
		b := &c.tbl.buckets[c.idx]
		if b.occupied && !b.deleted {
			return
		}
		c.idx++
	}
}

// beforeBegin is the sentinel Cursor.idx takes on when Prev runs out of
// live slots below the cursor's current position: the backward
// counterpart of the End sentinel (bucketCount()). Valid() is false for
// both.
const beforeBegin = ^uint64(0)

// Prev moves the cursor to the previous live slot in storage order,
// including index 0. If no live slot remains below the current
// position, the cursor becomes invalid (Valid() reports false) rather
// than landing on a non-live slot.
func (c *Cursor[K, V]) Prev() {
	i := c.idx
	for i > 0 {
		i--
		b := &c.tbl.buckets[i]
		if b.occupied && !b.deleted {
			c.idx = i
			return
		}
	}
	c.idx = beforeBegin
}
