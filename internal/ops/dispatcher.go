package ops

import (
	"errors"
	"fmt"

	"github.com/procman-io/procman/internal/logging"
	"github.com/procman-io/procman/internal/proctree"
	"github.com/procman-io/procman/internal/session"
	"github.com/procman-io/procman/pkg/model"
)

var log = logging.L("ops")

// ErrNotInTree is returned when a descendant kill targets a pid that is not
// in the current process tree.
var ErrNotInTree = errors.New("pid not found in process tree")

// Dispatcher issues control actions. Every state-changing entry point checks
// the permission guard before any OS call; denial leaves no partial side
// effect. Operations are synchronous and never retried here.
type Dispatcher struct {
	guard *session.Guard
	sig   Signaller
}

func NewDispatcher(guard *session.Guard, sig Signaller) *Dispatcher {
	return &Dispatcher{guard: guard, sig: sig}
}

// signal is the unchecked primitive; callers hold a passed guard check.
func (d *Dispatcher) signal(pid int, sig Signal) error {
	if err := d.sig.Signal(pid, sig); err != nil {
		return fmt.Errorf("send %s to pid %d: %w", sig, pid, err)
	}
	log.Debug("signal delivered", "pid", pid, "signal", sig.String())
	return nil
}

// ForceKill terminates pid immediately; the target gets no chance to clean up.
func (d *Dispatcher) ForceKill(pid int) error {
	if err := d.guard.Require(); err != nil {
		return err
	}
	return d.signal(pid, SigKill)
}

// Terminate asks pid to exit; the target may ignore, delay, or trap it.
func (d *Dispatcher) Terminate(pid int) error {
	if err := d.guard.Require(); err != nil {
		return err
	}
	return d.signal(pid, SigTerm)
}

// Pause suspends scheduling of pid. Reversible with Resume.
func (d *Dispatcher) Pause(pid int) error {
	if err := d.guard.Require(); err != nil {
		return err
	}
	return d.signal(pid, SigStop)
}

// Resume lets a paused pid run again; a no-op for a process that is not
// paused.
func (d *Dispatcher) Resume(pid int) error {
	if err := d.guard.Require(); err != nil {
		return err
	}
	return d.signal(pid, SigCont)
}

// SetPriority changes the scheduling priority hint. The kernel rejects
// out-of-range nice values; that rejection is propagated, not pre-checked.
func (d *Dispatcher) SetPriority(pid int, nice int) error {
	if err := d.guard.Require(); err != nil {
		return err
	}
	if err := d.sig.SetPriority(pid, nice); err != nil {
		return fmt.Errorf("set nice %d on pid %d: %w", nice, pid, err)
	}
	log.Debug("priority changed", "pid", pid, "nice", nice)
	return nil
}

// batch applies op to every target regardless of individual failures and
// reports per-target outcomes. The permission check happens once, up front;
// denial means zero OS calls.
func (d *Dispatcher) batch(pids []int, op func(int) error) (model.BatchResult, error) {
	var res model.BatchResult
	if err := d.guard.Require(); err != nil {
		return res, err
	}
	for _, pid := range pids {
		res.Record(pid, op(pid))
	}
	if res.Failed > 0 {
		log.Info("batch finished with failures", "succeeded", res.Succeeded, "failed", res.Failed)
	}
	return res, nil
}

// BatchKill kills every pid; force selects SIGKILL over SIGTERM.
func (d *Dispatcher) BatchKill(pids []int, force bool) (model.BatchResult, error) {
	sig := SigTerm
	if force {
		sig = SigKill
	}
	return d.batch(pids, func(pid int) error { return d.signal(pid, sig) })
}

// BatchPause suspends every pid.
func (d *Dispatcher) BatchPause(pids []int) (model.BatchResult, error) {
	return d.batch(pids, func(pid int) error { return d.signal(pid, SigStop) })
}

// BatchResume resumes every pid.
func (d *Dispatcher) BatchResume(pids []int) (model.BatchResult, error) {
	return d.batch(pids, func(pid int) error { return d.signal(pid, SigCont) })
}

// KillDescendants force-kills everything below pid in the given tree,
// deepest-first, so a child is not reparented to a still-live ancestor mid
// operation. The target itself dies last, and only when includeTarget is
// set. Per-descendant failures are recorded, not fatal.
func (d *Dispatcher) KillDescendants(tree *proctree.Tree, pid int, includeTarget bool) (model.TreeKillResult, error) {
	res := model.TreeKillResult{TargetIncluded: includeTarget}
	if err := d.guard.Require(); err != nil {
		return res, err
	}

	node := tree.Find(pid)
	if node == nil {
		return res, fmt.Errorf("%w: %d", ErrNotInTree, pid)
	}

	descendants := node.DescendantPIDs()
	for i := len(descendants) - 1; i >= 0; i-- {
		target := descendants[i]
		if err := d.signal(target, SigKill); err != nil {
			res.Failures = append(res.Failures, model.Failure{PID: target, Err: err.Error()})
			continue
		}
		res.Killed = append(res.Killed, target)
	}

	if includeTarget {
		if err := d.signal(pid, SigKill); err != nil {
			res.Failures = append(res.Failures, model.Failure{PID: pid, Err: err.Error()})
		} else {
			res.Killed = append(res.Killed, pid)
		}
	}

	log.Info("descendant kill finished", "target", pid, "killed", len(res.Killed), "failed", len(res.Failures))
	return res, nil
}
