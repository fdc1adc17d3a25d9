package stripemap

// probeStatus is the outcome of a probe loop: internal only, never
// surfaced across a public API boundary.
type probeStatus int

const (
	probeNotFound probeStatus = iota
	probeFound
	probeInsertHere
	probeDuplicate
)

// probeResult carries a probe's outcome plus, when status is probeFound
// or probeInsertHere/probeDuplicate, the stripe lock protecting index:
// held, and the caller's to release once it finishes touching the slot.
type probeResult[K comparable, V any] struct {
	tbl    *table[K, V]
	index  uint64
	lock   *stripeLock
	status probeStatus
}

// linearFindLoop walks the probe chain for key starting at hv's bucket,
// re-acquiring the owning stripe at each step. A tombstone is skipped;
// an empty slot or probe-budget exhaustion ends the search with
// probeNotFound; an equal key ends it with probeFound, the stripe lock
// still held.
//
// Tie-break: a later duplicate key always wins over an earlier
// tombstone, since the walk only stops early on a true hit or a true
// empty slot. A tombstone just gets skipped and the walk continues.
func (m *Map[K, V]) linearFindLoop(key K, hv uint64) probeResult[K, V] {
	tbl := m.tbl.Load()
	idx := hv & tbl.mask
	var retry uint64
	for {
		lk, newTbl, newIdx := m.lockOneLoop(tbl, idx, hv)
		if newTbl != tbl {
			retry = 0
		}
		tbl, idx = newTbl, newIdx

		b := &tbl.buckets[idx]
		switch {
		case !b.occupied:
			lk.Unlock()
			return probeResult[K, V]{status: probeNotFound}
		case b.deleted:
			// tombstone: keep walking
		case m.equal(b.key, key):
			return probeResult[K, V]{tbl: tbl, index: idx, lock: lk, status: probeFound}
		}
		lk.Unlock()

		retry++
		if retry >= tbl.probeBudget() {
			return probeResult[K, V]{status: probeNotFound}
		}
		idx = (idx + 1) & tbl.mask
	}
}

// linearInsertLoop walks the probe chain for key, returning an equal-key
// hit as probeDuplicate or, failing that, the earliest eligible slot
// (the first tombstone seen, or the terminating empty slot if no
// tombstone was seen) as probeInsertHere. Keys dominate tombstones: the
// walk never stops at a tombstone, it only remembers the first one and
// keeps going, since a duplicate can still appear further down the same
// chain. On probe-budget exhaustion it triggers a grow-by-one-hashPower
// resize and restarts the walk against the new table.
func (m *Map[K, V]) linearInsertLoop(key K, hv uint64) probeResult[K, V] {
	for {
		res, retryWhole := m.linearInsertAttempt(key, hv)
		if !retryWhole {
			return res
		}
	}
}

// linearInsertAttempt is linearInsertLoop's single pass. retryWhole is
// true if the remembered tombstone was reclaimed by another writer, or
// the table generation changed, before it could be re-locked for the
// caller.
func (m *Map[K, V]) linearInsertAttempt(key K, hv uint64) (res probeResult[K, V], retryWhole bool) {
	tbl := m.tbl.Load()
	idx := hv & tbl.mask
	var retry uint64
	haveTombstone := false
	var tombstoneIdx uint64

	for {
		lk, newTbl, newIdx := m.lockOneLoop(tbl, idx, hv)
		if newTbl != tbl {
			retry = 0
			haveTombstone = false
		}
		tbl, idx = newTbl, newIdx

		b := &tbl.buckets[idx]
		switch {
		case b.deleted:
			if !haveTombstone {
				haveTombstone = true
				tombstoneIdx = idx
			}
			lk.Unlock()
		case !b.occupied:
			if !haveTombstone {
				return probeResult[K, V]{tbl: tbl, index: idx, lock: lk, status: probeInsertHere}, false
			}
			lk.Unlock()
			tlk, tTbl, tIdx := m.lockOneLoop(tbl, tombstoneIdx, hv)
			tb := &tTbl.buckets[tIdx]
			if tTbl == tbl && tb.occupied && tb.deleted {
				return probeResult[K, V]{tbl: tTbl, index: tIdx, lock: tlk, status: probeInsertHere}, false
			}
			tlk.Unlock()
			return probeResult[K, V]{}, true
		case m.equal(b.key, key):
			return probeResult[K, V]{tbl: tbl, index: idx, lock: lk, status: probeDuplicate}, false
		default:
			lk.Unlock()
		}

		idx = (idx + 1) & tbl.mask
		retry++
		if retry >= tbl.probeBudget() {
			m.linearExpand(tbl.hashPower, tbl.hashPower+1)
			tbl = m.tbl.Load()
			idx = hv & tbl.mask
			retry = 0
			haveTombstone = false
		}
	}
}

// snapshotFind walks the probe chain for key directly against tbl,
// without taking any stripe lock. Valid only while every stripe in tbl
// is already held by the caller (LockedMap.Find uses this).
func snapshotFind[K comparable, V any](tbl *table[K, V], key K, hv uint64, equal func(a, b K) bool) (uint64, bool) {
	idx := hv & tbl.mask
	var retry uint64
	for {
		b := &tbl.buckets[idx]
		switch {
		case !b.occupied:
			return 0, false
		case b.deleted:
		case equal(b.key, key):
			return idx, true
		}
		retry++
		if retry >= tbl.probeBudget() {
			return 0, false
		}
		idx = (idx + 1) & tbl.mask
	}
}
