package model

import "fmt"

// Failure records one target that an operation could not act on.
type Failure struct {
	PID int    `json:"pid"`
	Err string `json:"error"`
}

// BatchResult aggregates the outcome of an operation applied across a set of
// pids. Every target is attempted; partial failure is a normal outcome, so
// the per-pid failures are carried alongside the counts.
type BatchResult struct {
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Record adds one per-target outcome.
func (r *BatchResult) Record(pid int, err error) {
	if err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{PID: pid, Err: err.Error()})
		return
	}
	r.Succeeded++
}

func (r BatchResult) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Succeeded, r.Failed)
}

// TreeKillResult reports a descendant-kill: which pids were actually
// terminated (deepest first), which could not be, and whether the target
// itself was included as the final step.
type TreeKillResult struct {
	Killed         []int     `json:"killed"`
	Failures       []Failure `json:"failures,omitempty"`
	TargetIncluded bool      `json:"targetIncluded"`
}
