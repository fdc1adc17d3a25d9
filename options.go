package stripemap

// config collects the construction-time knobs assembled from Option
// functions, following the functional-options idiom of the With*
// options below.
type config struct {
	hashPower        uint64
	maxWorkerThreads int64
	hasher           any // hashFunc[K], type-asserted back in NewMap
	equalFn          any // func(a, b K) bool, type-asserted back in NewMap
	shrinkEnabled    bool
}

// Option configures a Map at construction time.
type Option func(*config)

// defaultHashPower is the initial table size exponent used when no
// WithHashPower or WithPresize option is supplied: 2^16 = 65,536 buckets.
const defaultHashPower = 16

// defaultMaxWorkerThreads bounds the extra goroutines a resize may spawn
// to parallelize migration, on top of the calling goroutine itself
// running the last slice inline.
const defaultMaxWorkerThreads = 8

// WithHashPower sets the initial table size as a power-of-two exponent:
// the table starts with 1<<hashPower buckets. A hashPower of 0 is legal
// and yields a single-bucket table.
func WithHashPower(hashPower uint64) Option {
	return func(c *config) { c.hashPower = hashPower }
}

// WithPresize sizes the initial table to the smallest power-of-two
// bucket count that is at least sizeHint. Inserts can still trigger a
// probe-exhaustion grow before sizeHint entries are stored. If sizeHint
// is zero or negative, the option has no effect.
func WithPresize(sizeHint int) Option {
	return func(c *config) {
		if sizeHint > 0 {
			c.hashPower = reserveHashPower(uint64(sizeHint))
		}
	}
}

// WithMaxWorkerThreads bounds the number of extra goroutines spawned to
// parallelize bucket migration during a resize. The calling goroutine
// always contributes one more worker beyond this count. Negative values
// are ignored.
func WithMaxWorkerThreads(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxWorkerThreads = int64(n)
		}
	}
}

// WithHasher overrides the key-hashing function used by a Map, in place
// of the default hasher, which is read through unsafe from the runtime
// type descriptor of map[K]V.
// The type parameter must match the Map's K or the option is silently
// ignored (NewMap falls back to the default hasher).
func WithHasher[K comparable](fn func(key K, seed uintptr) uint64) Option {
	return func(c *config) { c.hasher = hashFunc[K](fn) }
}

// WithEqual overrides the key-equality function used by a Map, in place
// of Go's built-in == for K. Needed when K's == is not the intended
// notion of equality (for example, a struct carrying a cache field that
// should not participate in comparison).
func WithEqual[K comparable](fn func(a, b K) bool) Option {
	return func(c *config) { c.equalFn = fn }
}

// WithShrinkEnabled allows an explicit Shrink call to take effect.
// Shrink is a no-op unless this option was supplied at construction,
// keeping accidental capacity loss opt-in.
func WithShrinkEnabled(enabled bool) Option {
	return func(c *config) { c.shrinkEnabled = enabled }
}

func newConfig(opts []Option) *config {
	c := &config{
		hashPower:        defaultHashPower,
		maxWorkerThreads: defaultMaxWorkerThreads,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
