// Command stripebench drives a mixed-operation workload against a
// stripemap.Map from several goroutines and reports throughput and a
// final Stat() snapshot. It is not part of the library's public API.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkv-hash/stripemap"
)

func main() {
	initSize := flag.Int("init-size", 16, "initial hash power")
	reads := flag.Int("reads", 70, "percent of ops that are reads")
	inserts := flag.Int("inserts", 10, "percent of ops that are inserts")
	erases := flag.Int("erases", 10, "percent of ops that are erases")
	updates := flag.Int("updates", 5, "percent of ops that are updates")
	upserts := flag.Int("upserts", 5, "percent of ops that are upserts")
	prefill := flag.Int("prefill", 100_000, "number of keys inserted before the timed run")
	totalOps := flag.Int("total-ops", 1_000_000, "total operations across all goroutines")
	numThreads := flag.Int("num-threads", 8, "number of concurrent goroutines")
	seed := flag.Int64("seed", 1, "key-selection PRNG seed")
	flag.Parse()

	if *reads+*inserts+*erases+*updates+*upserts != 100 {
		fmt.Fprintln(os.Stderr, "stripebench: --reads+--inserts+--erases+--updates+--upserts must sum to 100")
		os.Exit(1)
	}

	m := stripemap.NewMap[int, int](stripemap.WithHashPower(uint64(*initSize)))
	for i := 0; i < *prefill; i++ {
		m.Insert(i, i)
	}

	keySpace := *prefill + *totalOps
	opsPerThread := *totalOps / *numThreads

	var wg sync.WaitGroup
	var completed atomic.Int64
	start := time.Now()

	for t := 0; t < *numThreads; t++ {
		wg.Add(1)
		go func(threadSeed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(uint64(threadSeed), uint64(threadSeed)))
			for i := 0; i < opsPerThread; i++ {
				key := rng.IntN(keySpace)
				runOp(m, rng, key, *reads, *inserts, *erases, *updates, *upserts)
			}
			completed.Add(int64(opsPerThread))
		}(*seed + int64(t))
	}
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("completed %d ops in %s (%.0f ops/sec)\n",
		completed.Load(), elapsed, float64(completed.Load())/elapsed.Seconds())
	fmt.Println(m.Stat())
}

func runOp(m *stripemap.Map[int, int], rng *rand.Rand, key, reads, inserts, erases, updates, upserts int) {
	roll := rng.IntN(100)
	switch {
	case roll < reads:
		m.Find(key)
	case roll < reads+inserts:
		m.Insert(key, key)
	case roll < reads+inserts+erases:
		m.Erase(key)
	case roll < reads+inserts+erases+updates:
		m.Update(key, key)
	default:
		_ = upserts
		m.Upsert(key, key)
	}
}
