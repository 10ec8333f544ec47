// Package memory tunes the Go runtime around large factorial computations.
package memory

import (
	"fmt"
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode controls the garbage collector behavior during a computation.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the smallest argument for which auto mode suspends the
// collector. Below it the products are small enough that GC pauses do not
// show up in the timings.
const GCAutoThreshold int64 = 250_000

// ParseGCMode validates a mode name.
func ParseGCMode(s string) (GCMode, error) {
	switch m := GCMode(s); m {
	case GCModeAuto, GCModeAggressive, GCModeDisabled:
		return m, nil
	default:
		return "", fmt.Errorf("unknown gc mode %q (want auto, aggressive or disabled)", s)
	}
}

// EstimateBits approximates the bit length of n! with Stirling's formula.
func EstimateBits(n int64) uint64 {
	if n < 2 {
		return 1
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return uint64(lg/math.Ln2) + 1
}

// EstimateDigits approximates the number of decimal digits of n!.
func EstimateDigits(n int64) uint64 {
	if n < 2 {
		return 1
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return uint64(lg/math.Ln10) + 1
}

// GCController suspends the collector while a large factorial is computed
// and restores it afterward. While suspended a soft memory limit is set as
// a safety net against runaway growth; a tighter limit already in force
// (GOMEMLIMIT or debug.SetMemoryLimit) is kept.
type GCController struct {
	mode                GCMode
	argument            int64
	originalGCPercent   int
	originalMemoryLimit int64
	active              bool
	logger              zerolog.Logger
	startStats          runtime.MemStats
}

// NewGCController creates a controller for the given mode and argument.
func NewGCController(mode GCMode, argument int64) *GCController {
	gc := &GCController{mode: mode, argument: argument, logger: zerolog.Nop()}
	switch mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = argument >= GCAutoThreshold
	}
	return gc
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Active reports whether Begin will suspend the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin disables GC if the controller is active.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	gc.originalMemoryLimit = debug.SetMemoryLimit(-1)
	limit := gc.memoryLimit()
	if limit > 0 && limit < gc.originalMemoryLimit {
		debug.SetMemoryLimit(limit)
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Int64("argument", gc.argument).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Int64("memory_limit_bytes", min(limit, gc.originalMemoryLimit)).
		Msg("gc disabled")
}

// memoryLimit is the larger of three times the current footprint and eight
// times the estimated size of the result. Workers, partials and the final
// fold each hold a copy of roughly result-sized data.
func (gc *GCController) memoryLimit() int64 {
	byFootprint := float64(gc.startStats.Sys) * 3
	byResult := float64(EstimateBits(gc.argument)/8) * 8
	limit := math.Max(byFootprint, byResult)
	if limit >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(limit)
}

// End restores the GC percent and memory limit found by Begin and triggers
// a collection.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	var end runtime.MemStats
	runtime.ReadMemStats(&end)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(gc.originalMemoryLimit)
	runtime.GC()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", end.HeapAlloc).
		Uint64("total_alloc_bytes", end.TotalAlloc-gc.startStats.TotalAlloc).
		Uint32("gc_cycles", end.NumGC-gc.startStats.NumGC).
		Msg("gc re-enabled")
}
