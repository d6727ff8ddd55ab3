package monitor

import (
	"time"

	"github.com/procman-io/procman/internal/procfs"
)

// cpuSample is one cumulative CPU-time observation for a pid. The timestamp
// comes from time.Now and carries Go's monotonic clock reading, so interval
// math is immune to wall-clock adjustment.
type cpuSample struct {
	ticks int64
	at    time.Time
}

// Estimator turns two time-separated cumulative CPU-tick samples per pid
// into an instantaneous usage percentage. History persists across refresh
// cycles and is pruned to the pids of the latest table, which bounds its
// memory to the current process count.
type Estimator struct {
	platform procfs.Platform
	history  map[int]cpuSample
}

func NewEstimator(platform procfs.Platform) *Estimator {
	return &Estimator{
		platform: platform,
		history:  make(map[int]cpuSample),
	}
}

// Percent computes the CPU percentage for pid from the previous sample and
// records the current one.
//
//	percent = (Δticks / tickHz) / Δwall * 100 / cores
//
// A pid seen for the first time reports exactly 0 and seeds the history;
// computing lifetime CPU time over one interval would misrepresent
// instantaneous load. A non-positive wall delta or a tick count that went
// backwards (pid reuse) also reports 0 and reseeds.
func (e *Estimator) Percent(pid int, ticks int64, at time.Time) float64 {
	prev, ok := e.history[pid]
	e.history[pid] = cpuSample{ticks: ticks, at: at}
	if !ok {
		return 0
	}

	wall := at.Sub(prev.at).Seconds()
	delta := ticks - prev.ticks
	if wall <= 0 || delta < 0 {
		return 0
	}

	hz := e.platform.TickHz()
	cores := e.platform.NumCPU()
	if hz <= 0 || cores <= 0 {
		return 0
	}

	return (float64(delta) / float64(hz)) / wall * 100 / float64(cores)
}

// Prune drops history for pids absent from the latest table.
func (e *Estimator) Prune(live map[int]struct{}) {
	for pid := range e.history {
		if _, ok := live[pid]; !ok {
			delete(e.history, pid)
		}
	}
}

// Tracked reports how many pids currently have history.
func (e *Estimator) Tracked() int {
	return len(e.history)
}
