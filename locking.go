package stripemap

// lockOneLoop acquires the stripe owning (tbl, idx), re-checking after
// acquisition that the map's current table generation still matches tbl.
// If a resize raced ahead of us, the lock we grabbed belongs to a stripe
// set that is no longer current: release it, recompute idx against the
// new table from the cached hash, and retry. This is the only
// synchronization the fast path pays: under no contention and no
// resize in flight, it is one acquire/release pair.
func (m *Map[K, V]) lockOneLoop(tbl *table[K, V], idx uint64, hv uint64) (*stripeLock, *table[K, V], uint64) {
	for {
		lk := tbl.node.stripes.stripeFor(idx)
		lk.Lock()
		cur := m.tbl.Load()
		if cur == tbl {
			return lk, tbl, idx
		}
		lk.Unlock()
		tbl = cur
		idx = hv & tbl.mask
	}
}

// lockAll acquires every stripe lock reachable, via history-node .next
// links, from the current table's own node. In the common case this
// locks exactly one stripe set (the current generation's): a second
// concurrent lockAll can only make progress past the first stripe once
// the first caller is done, so no two resizes, clears, or whole-table
// locks are ever mid-flight at once, and the list that lockAll walks
// never grows while it is walking it. The forward-link walk is kept
// anyway because it is what the locking protocol is specified to do, and
// it degrades gracefully (locks a little more, harmlessly) if that
// invariant is ever relaxed.
//
// Returns nil if the map has not been initialized yet.
func (m *Map[K, V]) lockAll() *allLocksGuard {
	tbl := m.tbl.Load()
	if tbl == nil {
		return nil
	}
	var nodes []*historyNode
	for n := tbl.node; n != nil; n = n.next.Load() {
		for i := range n.stripes.locks {
			n.stripes.locks[i].Lock()
		}
		nodes = append(nodes, n)
	}
	return &allLocksGuard{nodes: nodes}
}
