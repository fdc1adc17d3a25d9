// Package stripemap implements a concurrent, in-memory hash map that maps
// keys of a comparable type K to values of any type V, tuned for
// high-rate mixed read/insert/update/erase workloads from many
// goroutines.
//
// Three subsystems do the hard work:
//
//   - An open-addressed bucket table using linear probing, with
//     tombstones for deleted slots so probe chains stay intact across
//     erases.
//   - A stripe-lock concurrency layer that shards mutation across many
//     fine-grained spinlocks, each tracking the element count of the
//     bucket range it owns.
//   - A cooperative resize protocol: growing on probe-length exhaustion,
//     or shrinking/rehashing/reserving on request, always by building an
//     entirely new bucket array and swapping it in under a rendezvous
//     that briefly locks every stripe in the table.
//
// A frozen-snapshot iteration mode (LockTable) is available for callers
// that need a consistent view of every entry; while it is open, no other
// operation on the Map can make progress.
//
// Map is built in the spirit of [pb.MapOf] and [xsync.MapOf]: a single
// struct usable from many goroutines without any lock visible in its
// public API, favoring throughput on the hot path (Find, Insert, Update,
// Erase) over the flexibility of a textbook chained hash table.
//
// [pb.MapOf]: https://github.com/llxisdsh/pb
// [xsync.MapOf]: https://github.com/puzpuzpuz/xsync
package stripemap
