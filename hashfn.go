package stripemap

import (
	"math/rand/v2"
	"unsafe"
)

// newSeed draws a fresh per-Map seed from math/rand/v2 rather than
// crypto/rand, since this seed only needs to vary hash placement across
// process runs, not resist an adversary who can observe it.
func newSeed() uintptr {
	return uintptr(rand.Uint64())
}

// hashFunc hashes a key of type K against a per-Map seed. Instances are
// expected to be stable for a given (key, seed) pair and to distribute
// well enough to keep probe chains short.
type hashFunc[K comparable] func(key K, seed uintptr) uint64

// defaultHasher derives a hash function for K by reaching into the type
// descriptor the compiler already generated for map[K]V: every
// comparable type has one, since the language guarantees map[K]V is
// always constructible for comparable K. This sidesteps hand-writing
// (and risking getting subtly wrong) a hash function per possible key
// kind.
//
// The layout this relies on (iType/iMapType below) mirrors the stable
// prefix of runtime._type / runtime.maptype and should be re-verified
// against each Go release.
func defaultHasher[K comparable, V any]() hashFunc[K] {
	var m map[K]V
	mt := (*iMapType)(unsafe.Pointer(ifaceType(any(m))))
	hasher := mt.Hasher
	return func(key K, seed uintptr) uint64 {
		return spreadHash(uint64(hasher(noescape(unsafe.Pointer(&key)), seed)))
	}
}

// spreadHash XORs a raw hash with its own high bits and multiplies by
// hashPrime (a word-size-appropriate odd mixing constant, chosen at
// build time by hashprime_32.go/hashprime_64.go) before a final XOR-shift.
// This improves distribution for key types whose built-in hash is
// already close to uniform in the low bits but weak in the high ones,
// at the cost of a few extra instructions per hash.
func spreadHash(h uint64) uint64 {
	h ^= h >> 33
	h *= uint64(hashPrime)
	h ^= h >> 29
	return h
}

type iType struct {
	size       uintptr
	ptrBytes   uintptr
	hash       uint32
	tflag      uint8
	align      uint8
	fieldAlign uint8
	kind       uint8
	equal      func(unsafe.Pointer, unsafe.Pointer) bool
	gcData     *byte
	str        int32
	ptrToThis  int32
}

// iMapType mirrors runtime.maptype: the map-specific fields follow the
// common type header, with Hasher last among the ones we need.
type iMapType struct {
	iType
	Key    *iType
	Elem   *iType
	Group  *iType
	Hasher func(unsafe.Pointer, uintptr) uintptr
}

type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func ifaceType(a any) unsafe.Pointer {
	return (*iface)(unsafe.Pointer(&a)).typ
}

// noescape hides a pointer from escape analysis, matching the idiom
// used throughout the Go runtime and standard library for short-lived
// unsafe.Pointer arguments that must not force their target onto the
// heap.
//
//go:nosplit
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	//nolint:staticcheck
	return unsafe.Pointer(x ^ 0)
}
