package stripemap

import "sync/atomic"

// maxNumLocks bounds how many stripe locks a single stripe set may hold,
// regardless of how large the bucket array gets. Past this point several
// buckets share a stripe, trading a little contention for a bounded
// resize cost.
const maxNumLocks = 1 << 16

// stripeSet is one generation's array of stripe locks. Bucket index i is
// owned by stripes.locks[i & (len(locks)-1)].
type stripeSet struct {
	locks []stripeLock
}

func newStripeSet(n int) *stripeSet {
	if n < 1 {
		n = 1
	}
	return &stripeSet{locks: make([]stripeLock, n)}
}

func (s *stripeSet) stripeFor(bucketIdx uint64) *stripeLock {
	return &s.locks[bucketIdx&uint64(len(s.locks)-1)]
}

// size sums every stripe's element counter. Like Map.Len, this is not
// linearizable against concurrent mutation: it is a best-effort total.
func (s *stripeSet) size() int64 {
	var total int64
	for i := range s.locks {
		total += s.locks[i].count()
	}
	return total
}

// stripeCountFor computes how many stripe locks a table of bucketCount
// buckets should get: one stripe per bucket up to maxNumLocks, capped
// beyond that.
func stripeCountFor(bucketCount uint64) int {
	n := bucketCount
	if n > maxNumLocks {
		n = maxNumLocks
	}
	if n < 1 {
		n = 1
	}
	return int(n)
}

// historyNode is one link in the append-only chain of stripe-set
// generations, one per table the map has ever held. Nodes are never
// removed: a goroutine that sampled an older table generation still
// holds a *stripeLock from that generation's node and must be able to
// unlock it even after a resize has moved the map on to a newer one.
// Each table keeps a direct pointer to its own node (table.node), so
// looking up "the stripes for this table" never requires walking the
// list: the list exists for lockAll, not for the per-operation fast
// path.
type historyNode struct {
	stripes *stripeSet
	next    atomic.Pointer[historyNode]
}

// allLocksGuard holds every stripe lock acquired by lockAll, across
// every history node reachable from the node lockAll started at. unlock
// releases them all, in the same order they were acquired.
type allLocksGuard struct {
	nodes []*historyNode
}

func (g *allLocksGuard) unlock() {
	if g == nil {
		return
	}
	for _, n := range g.nodes {
		for i := range n.stripes.locks {
			n.stripes.locks[i].Unlock()
		}
	}
}
