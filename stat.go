package stripemap

import "fmt"

// Stat returns a human-readable, single-line report of the map's current
// size, capacity, and lifetime resize/clear counters. Its exact format
// is unspecified and may change between versions; callers should not
// parse it. Like Len, it sums the stripe counters without taking any
// lock, so under concurrent mutation the size it reports is a
// best-effort snapshot, not a linearizable read.
func (m *Map[K, V]) Stat() string {
	tbl := m.tbl.Load()
	size := tbl.node.stripes.size()
	buckets := tbl.bucketCount()
	var load float64
	if buckets > 0 {
		load = float64(size) / float64(buckets)
	}
	return fmt.Sprintf(
		"stripemap.Stat{size=%d, capacity=%d, hashPower=%d, loadFactor=%.4f, "+
			"expansions=%d, shrinks=%d, clears=%d, maxWorkerThreads=%d}",
		size, buckets, tbl.hashPower, load,
		m.expansions.Load(), m.shrinks.Load(), m.clears.Load(),
		m.maxWorkerThreads.Load(),
	)
}
