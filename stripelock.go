package stripemap

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// spinRetriesBeforeYield bounds how many CAS attempts a stripeLock makes
// before giving up its timeslice: a spin-then-yield backoff built on
// exported stdlib APIs only. Linknaming into sync.runtime_doSpin ties an
// implementation to undocumented, version-fragile runtime internals that
// this package does not need.
const spinRetriesBeforeYield = 32

// stripeLock is a cache-line-padded spinlock guarding the bucket indices
// that map to it (index & (stripeCount-1), so they are interleaved, not
// contiguous), together with a signed element counter for the number of
// live keys currently held in those buckets. A test-and-set
// spinlock is adequate here because every critical section touches O(1)
// slots; callers with long tail latencies under oversubscription could
// substitute an adaptive mutex behind the same Lock/TryLock/Unlock shape.
type stripeLock struct {
	locked  atomic.Uint32
	counter atomic.Int64

	//lint:ignore U1000 prevents false sharing between adjacent stripes
	_ [(cacheLineSize - unsafe.Sizeof(struct {
		locked  atomic.Uint32
		counter atomic.Int64
	}{})%cacheLineSize) % cacheLineSize]byte
}

// Lock blocks, spinning, until it acquires the stripe.
func (s *stripeLock) Lock() {
	if s.locked.CompareAndSwap(0, 1) {
		return
	}
	s.lockSlow()
}

func (s *stripeLock) lockSlow() {
	spins := 0
	for !s.locked.CompareAndSwap(0, 1) {
		spins++
		if spins > spinRetriesBeforeYield {
			runtime.Gosched()
			spins = 0
		}
	}
}

// TryLock attempts to acquire the stripe without blocking.
func (s *stripeLock) TryLock() bool {
	return s.locked.CompareAndSwap(0, 1)
}

// Unlock releases the stripe. The caller must hold it.
func (s *stripeLock) Unlock() {
	s.locked.Store(0)
}

// addCount adjusts the stripe's element counter. The caller must hold
// the stripe lock.
func (s *stripeLock) addCount(delta int64) {
	s.counter.Add(delta)
}

// count reads the stripe's element counter. It may be called without
// holding the lock (Len/Stat do this across every stripe), in which case
// it is a snapshot that may race with concurrent mutation.
func (s *stripeLock) count() int64 {
	return s.counter.Load()
}
