package stripemap

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is used in structure padding to prevent false sharing
// between adjacent stripe locks and table headers. It is derived from
// golang.org/x/sys/cpu so padding tracks the build target instead of a
// hardcoded guess.
const cacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
