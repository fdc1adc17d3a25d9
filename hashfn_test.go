package stripemap

import "testing"

func TestDefaultHasherIsStableForFixedSeed(t *testing.T) {
	h := defaultHasher[int, string]()
	seed := newSeed()
	a := h(42, seed)
	b := h(42, seed)
	if a != b {
		t.Fatalf("hash(42, seed) not stable across calls: %d != %d", a, b)
	}
}

func TestDefaultHasherVariesWithSeed(t *testing.T) {
	h := defaultHasher[int, string]()
	seedA := uintptr(1)
	seedB := uintptr(2)
	if h(42, seedA) == h(42, seedB) {
		t.Fatal("hash(42, seedA) == hash(42, seedB), expected different seeds to (almost always) diverge")
	}
}

func TestDefaultHasherDistinguishesKeys(t *testing.T) {
	h := defaultHasher[string, int]()
	seed := newSeed()
	seen := map[uint64]bool{}
	for _, key := range []string{"a", "b", "c", "ab", "ba", "hash", "map", "stripe"} {
		hv := h(key, seed)
		if seen[hv] {
			t.Fatalf("hash collision among small distinct key set for key %q", key)
		}
		seen[hv] = true
	}
}

func TestSpreadHashDeterministic(t *testing.T) {
	if spreadHash(12345) != spreadHash(12345) {
		t.Fatal("spreadHash is not a pure function of its input")
	}
}
