package stripemap

import (
	"math/bits"
	"sync/atomic"
)

// Map is a concurrent, in-memory hash map from keys of type K to values of
// type V. The zero value is not usable; construct one with NewMap.
//
// Every exported method is safe for concurrent use by multiple goroutines.
// A single key's operations are linearizable with respect to each other;
// operations on different keys that land in different stripes have no
// guaranteed relative order. Len and Stat are deliberately not
// linearizable against concurrent mutation (see their doc comments).
type Map[K comparable, V any] struct {
	tbl     atomic.Pointer[table[K, V]]
	hasher  hashFunc[K]
	equalFn func(a, b K) bool
	seed    uintptr

	maxWorkerThreads atomic.Int64
	shrinkEnabled    bool

	expansions atomic.Int64
	shrinks    atomic.Int64
	clears     atomic.Int64
}

// NewMap constructs a Map, applying any supplied Options over the
// defaults (initial hash power 16, up to 8 extra migration workers,
// default hasher/equality derived from map[K]V, shrink disabled).
func NewMap[K comparable, V any](opts ...Option) *Map[K, V] {
	cfg := newConfig(opts)

	m := &Map[K, V]{
		shrinkEnabled: cfg.shrinkEnabled,
		seed:          newSeed(),
	}
	m.maxWorkerThreads.Store(cfg.maxWorkerThreads)

	if h, ok := cfg.hasher.(hashFunc[K]); ok && h != nil {
		m.hasher = h
	} else {
		m.hasher = defaultHasher[K, V]()
	}

	if eq, ok := cfg.equalFn.(func(a, b K) bool); ok && eq != nil {
		m.equalFn = eq
	} else {
		m.equalFn = func(a, b K) bool { return a == b }
	}

	tbl := newTable[K, V](cfg.hashPower)
	tbl.node = &historyNode{stripes: newStripeSet(stripeCountFor(tbl.bucketCount()))}
	m.tbl.Store(tbl)

	return m
}

func (m *Map[K, V]) equal(a, b K) bool {
	return m.equalFn(a, b)
}

func (m *Map[K, V]) hashKey(key K) uint64 {
	return m.hasher(key, m.seed)
}

// Len returns the number of live entries, computed as the sum of every
// stripe's element counter without acquiring any lock. Under concurrent
// mutation this is a best-effort snapshot, not a linearizable read.
func (m *Map[K, V]) Len() int {
	tbl := m.tbl.Load()
	return int(tbl.node.stripes.size())
}

// IsEmpty reports whether Len() == 0, subject to the same non-
// linearizability as Len.
func (m *Map[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Capacity returns the current bucket count, 2^HashPower().
func (m *Map[K, V]) Capacity() uint64 {
	return m.tbl.Load().bucketCount()
}

// HashPower returns the current table generation's size exponent.
func (m *Map[K, V]) HashPower() uint64 {
	return m.tbl.Load().hashPower
}

// LoadFactor returns Len() / Capacity() as a float64 in [0, 1]: each
// live entry occupies its own bucket, so the count never exceeds the
// bucket count.
func (m *Map[K, V]) LoadFactor() float64 {
	tbl := m.tbl.Load()
	buckets := tbl.bucketCount()
	if buckets == 0 {
		return 0
	}
	return float64(tbl.node.stripes.size()) / float64(buckets)
}

// MaxWorkerThreads returns the current bound on extra goroutines spawned
// during a resize's parallel migration phase.
func (m *Map[K, V]) MaxWorkerThreads() int {
	return int(m.maxWorkerThreads.Load())
}

// SetMaxWorkerThreads changes the bound on extra migration goroutines for
// future resizes. Negative values are ignored.
func (m *Map[K, V]) SetMaxWorkerThreads(n int) {
	if n >= 0 {
		m.maxWorkerThreads.Store(int64(n))
	}
}

// Find looks up key, returning its value and true if present, or the
// zero value and false otherwise.
func (m *Map[K, V]) Find(key K) (V, bool) {
	hv := m.hashKey(key)
	res := m.linearFindLoop(key, hv)
	if res.status != probeFound {
		var zero V
		return zero, false
	}
	v := res.tbl.buckets[res.index].value
	res.lock.Unlock()
	return v, true
}

// MustFind looks up key, returning its value if present. If key is
// absent it panics with a *KeyNotFoundError, mirroring the throwing
// find(k) -> V overload this package's probe engine is modeled on.
func (m *Map[K, V]) MustFind(key K) V {
	v, ok := m.Find(key)
	if !ok {
		panic(&KeyNotFoundError{Key: key})
	}
	return v
}

// FindFunc looks up key and, if present, invokes fn with its value while
// still holding the owning stripe lock: useful to read a large value
// without copying it out, or to combine a lookup with other per-key
// bookkeeping. It reports whether key was present.
func (m *Map[K, V]) FindFunc(key K, fn func(value V)) bool {
	hv := m.hashKey(key)
	res := m.linearFindLoop(key, hv)
	if res.status != probeFound {
		return false
	}
	fn(res.tbl.buckets[res.index].value)
	res.lock.Unlock()
	return true
}

// Update sets the value for an existing key. It reports whether key was
// present; the map is unchanged if it was not.
func (m *Map[K, V]) Update(key K, value V) bool {
	return m.UpdateFunc(key, func(V) V { return value })
}

// UpdateFunc replaces the value for an existing key with fn(oldValue),
// applied under the owning stripe lock. It reports whether key was
// present.
func (m *Map[K, V]) UpdateFunc(key K, fn func(old V) V) bool {
	hv := m.hashKey(key)
	res := m.linearFindLoop(key, hv)
	if res.status != probeFound {
		return false
	}
	b := &res.tbl.buckets[res.index]
	b.value = fn(b.value)
	res.lock.Unlock()
	return true
}

// Erase removes key unconditionally if present. It reports whether key
// was present.
func (m *Map[K, V]) Erase(key K) bool {
	return m.EraseFunc(key, func(V) bool { return true })
}

// EraseFunc removes key if present and pred(value) reports true,
// evaluated under the owning stripe lock. It reports whether key was
// present, regardless of what pred returned.
func (m *Map[K, V]) EraseFunc(key K, pred func(value V) bool) bool {
	hv := m.hashKey(key)
	res := m.linearFindLoop(key, hv)
	if res.status != probeFound {
		return false
	}
	if pred(res.tbl.buckets[res.index].value) {
		res.tbl.eraseSlot(res.index)
		res.lock.addCount(-1)
	}
	res.lock.Unlock()
	return true
}

// Insert adds key/value only if key is absent. It reports whether the
// insertion happened.
func (m *Map[K, V]) Insert(key K, value V) bool {
	return m.UpraseFunc(key, func(V) bool { return false }, value)
}

// InsertOrAssign inserts key/value if key is absent, or overwrites the
// existing value if present. It reports whether the key was newly
// inserted.
func (m *Map[K, V]) InsertOrAssign(key K, value V) bool {
	hv := m.hashKey(key)
	res := m.linearInsertLoop(key, hv)
	if res.status == probeInsertHere {
		res.tbl.setSlot(res.index, key, value, hv)
		res.lock.addCount(1)
		res.lock.Unlock()
		return true
	}
	res.tbl.buckets[res.index].value = value
	res.lock.Unlock()
	return false
}

// Upsert is an alias for InsertOrAssign, named to match the vocabulary
// this package's probe engine and mutation taxonomy use internally.
func (m *Map[K, V]) Upsert(key K, value V) bool {
	return m.InsertOrAssign(key, value)
}

// UpraseFunc is this package's name for upsert/uprase_fn, Insert's
// building block: if key is absent, value is inserted and UpraseFunc
// returns true. If key is present, fn(existingValue) is invoked under
// the owning stripe lock; if fn returns true the entry is erased and
// UpraseFunc returns false, otherwise the entry is left untouched and
// UpraseFunc returns false.
func (m *Map[K, V]) UpraseFunc(key K, fn func(existing V) bool, value V) bool {
	hv := m.hashKey(key)
	res := m.linearInsertLoop(key, hv)
	if res.status == probeInsertHere {
		res.tbl.setSlot(res.index, key, value, hv)
		res.lock.addCount(1)
		res.lock.Unlock()
		return true
	}
	// probeDuplicate
	erase := fn(res.tbl.buckets[res.index].value)
	if erase {
		res.tbl.eraseSlot(res.index)
		res.lock.addCount(-1)
	}
	res.lock.Unlock()
	return false
}

// Clear removes every entry, leaving capacity unchanged. Stripe counters
// are reset to zero.
func (m *Map[K, V]) Clear() {
	guard := m.lockAll()
	defer guard.unlock()

	tbl := m.tbl.Load()
	tbl.clearSlots()
	for i := range tbl.node.stripes.locks {
		tbl.node.stripes.locks[i].counter.Store(0)
	}
	m.clears.Add(1)
}

// ClearAndFree removes every entry and shrinks the table back to a
// single-bucket (hashPower 0) generation, releasing the larger backing
// array.
func (m *Map[K, V]) ClearAndFree() {
	m.Clear()
	m.Rehash(0)
}

// nextPow2HashPower returns the smallest hp such that 1<<hp >= n.
func nextPow2HashPower(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}
