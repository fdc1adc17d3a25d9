package stripemap

import "sync"

// reserveHashPower computes the smallest hash power hp such that
// 1<<hp >= n, the same sizing rule Reserve and WithPresize use.
func reserveHashPower(n uint64) uint64 {
	return nextPow2HashPower(n)
}

// linearExpand is the resize coordinator: it swaps the current table for
// a freshly built one at newHP, migrating every live entry across under
// a lock-all rendezvous. It returns false (the internal UnderExpansion
// signal, never surfaced past this point) if another goroutine already
// changed the table generation away from origHP before this call could
// acquire the rendezvous. The caller is expected to re-read the current
// generation and retry if it cares.
func (m *Map[K, V]) linearExpand(origHP, newHP uint64) bool {
	guard := m.lockAll()
	if guard == nil {
		return false
	}
	defer guard.unlock()

	cur := m.tbl.Load()
	if cur.hashPower != origHP {
		return false
	}

	newTbl := newTable[K, V](newHP)
	newTbl.node = &historyNode{stripes: newStripeSet(stripeCountFor(newTbl.bucketCount()))}

	m.migrate(cur, newTbl)

	tail := cur.node
	for {
		next := tail.next.Load()
		if next == nil {
			break
		}
		tail = next
	}
	tail.next.Store(newTbl.node)

	m.tbl.Store(newTbl)

	switch {
	case newHP > origHP:
		m.expansions.Add(1)
	case newHP < origHP:
		m.shrinks.Add(1)
	}
	return true
}

// migrate copies every live entry from src into dst, partitioning src's
// index range into 1+extraWorkers equal slices (extraWorkers bounded by
// MaxWorkerThreads) and running all but the last slice on spawned
// goroutines. The calling goroutine always runs the last slice inline,
// so a MaxWorkerThreads of 0 still makes progress using only the caller.
func (m *Map[K, V]) migrate(src, dst *table[K, V]) {
	n := src.bucketCount()
	extra := int(m.maxWorkerThreads.Load())
	slices := extra + 1
	if uint64(slices) > n {
		slices = int(n)
	}
	if slices < 1 {
		slices = 1
	}
	chunk := (n + uint64(slices) - 1) / uint64(slices)

	var wg sync.WaitGroup
	for w := 0; w < slices-1; w++ {
		start := uint64(w) * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end uint64) {
			defer wg.Done()
			m.migrateRange(src, dst, start, end)
		}(start, end)
	}

	lastStart := uint64(slices-1) * chunk
	if lastStart < n {
		m.migrateRange(src, dst, lastStart, n)
	}
	wg.Wait()
}

// migrateRange moves every occupied, non-tombstone slot in src's
// [start, end) index range into dst.
func (m *Map[K, V]) migrateRange(src, dst *table[K, V], start, end uint64) {
	for i := start; i < end; i++ {
		b := &src.buckets[i]
		if !b.occupied || b.deleted {
			continue
		}
		m.insertDuringMigration(dst, b.key, b.value, b.hash)
	}
}

// insertDuringMigration inserts a key known to be absent from dst
// (migration never re-migrates a key) using dst's own stripe locks,
// since concurrent migration workers may probe overlapping index ranges
// in the destination table even though their source ranges are
// disjoint. dst is not yet reachable through m.tbl, so there is no
// generation to validate here.
func (m *Map[K, V]) insertDuringMigration(dst *table[K, V], key K, value V, hash uint64) {
	idx := hash & dst.mask
	for {
		lk := dst.node.stripes.stripeFor(idx)
		lk.Lock()
		if !dst.buckets[idx].occupied {
			dst.setSlot(idx, key, value, hash)
			lk.addCount(1)
			lk.Unlock()
			return
		}
		lk.Unlock()
		idx = (idx + 1) & dst.mask
	}
}

// Rehash resizes the table to exactly 1<<hp buckets, migrating every
// entry. It reports false without effect if hp equals the current hash
// power (a same-size reorganization is explicitly disallowed: there is
// no separate generation counter beyond hashPower itself). Migration
// probes dst without growing it, so requesting an hp too small to hold
// the live set will spin rather than resize further; callers that don't
// know their live count should prefer Reserve.
func (m *Map[K, V]) Rehash(hp uint64) bool {
	for {
		cur := m.tbl.Load()
		if hp == cur.hashPower {
			return false
		}
		if m.linearExpand(cur.hashPower, hp) {
			return true
		}
		// generation moved under us before the rendezvous; retry against
		// whatever is current now.
	}
}

// Reserve grows the table, if needed, to the smallest power-of-two
// bucket count that is at least n. Because probing is bounded by the
// hash power, inserts can still trigger a probe-exhaustion grow before
// n entries are stored. It reports whether a resize happened; a reserve
// that does not increase capacity is a no-op returning false.
func (m *Map[K, V]) Reserve(n int) bool {
	if n <= 0 {
		return false
	}
	want := reserveHashPower(uint64(n))
	for {
		cur := m.tbl.Load()
		if want <= cur.hashPower {
			return false
		}
		if m.linearExpand(cur.hashPower, want) {
			return true
		}
	}
}

// Shrink halves the hash power repeatedly while the load factor is at
// most 1/4 and the hash power exceeds 1. It is a no-op unless the Map
// was constructed with WithShrinkEnabled(true), keeping capacity loss
// opt-in, and a no-op whenever the threshold is not met.
func (m *Map[K, V]) Shrink() bool {
	if !m.shrinkEnabled {
		return false
	}
	shrunk := false
	for {
		cur := m.tbl.Load()
		if cur.hashPower <= 1 {
			return shrunk
		}
		if float64(cur.node.stripes.size())/float64(cur.bucketCount()) > 0.25 {
			return shrunk
		}
		if !m.linearExpand(cur.hashPower, cur.hashPower-1) {
			continue
		}
		shrunk = true
	}
}
