package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/procman-io/procman/internal/ops"
	"github.com/procman-io/procman/internal/procfs"
	"github.com/procman-io/procman/internal/session"
	"github.com/procman-io/procman/pkg/model"
)

// stubReader serves canned snapshots and can fail on demand.
type stubReader struct {
	snap *procfs.Snapshot
	err  error
}

func (r *stubReader) Snapshot() (*procfs.Snapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	// Copy so the manager cannot alias the stub's slice.
	procs := make([]procfs.RawProc, len(r.snap.Procs))
	copy(procs, r.snap.Procs)
	return &procfs.Snapshot{Procs: procs, UptimeSeconds: r.snap.UptimeSeconds}, nil
}

// countingSignaller counts OS calls and can fail chosen pids.
type countingSignaller struct {
	signals    int
	priorities int
	failPIDs   map[int]bool
}

func (s *countingSignaller) Signal(pid int, _ ops.Signal) error {
	s.signals++
	if s.failPIDs[pid] {
		return errors.New("no such process")
	}
	return nil
}

func (s *countingSignaller) SetPriority(pid int, _ int) error {
	s.priorities++
	if s.failPIDs[pid] {
		return errors.New("operation not permitted")
	}
	return nil
}

func raw(pid, ppid int, ticks int64) procfs.RawProc {
	return procfs.RawProc{
		PID: pid, PPID: ppid, Comm: "proc", StateCode: 'S',
		UID: 1000, User: "alice", RSSPages: 256, Nice: 0,
		CPUTicks: ticks, StartTicks: 100,
	}
}

func adminSession() session.Session {
	return session.Session{ID: 0, Name: "root", Privilege: session.Admin}
}

func newTestManager(r *stubReader, sig *countingSignaller, sess session.Session) *Manager {
	m := New(r, procfs.FixedPlatform{Hz: 100, CPUs: 1, Bytes: 4096}, sig, sess, 1)
	base := time.Now()
	step := 0
	m.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}
	return m
}

func TestRefreshBuildsTable(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{
		UptimeSeconds: 500,
		Procs:         []procfs.RawProc{raw(1, 0, 10), raw(2, 1, 20)},
	}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
	if m.Count() != 2 {
		t.Fatalf("table size = %d, want 2", m.Count())
	}

	p, ok := m.Process(2)
	if !ok {
		t.Fatal("pid 2 missing")
	}
	if p.State != model.StateSleeping || p.User != "alice" {
		t.Fatalf("record = %+v", p)
	}
	if p.ResidentBytes != 256*4096 {
		t.Fatalf("resident bytes = %d, want pages*pagesize", p.ResidentBytes)
	}
	// uptime = 500 - 100/100 = 499
	if p.UptimeSeconds != 499 {
		t.Fatalf("uptime = %d, want 499", p.UptimeSeconds)
	}
}

func TestFirstSightingHasZeroCPU(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{UptimeSeconds: 10, Procs: []procfs.RawProc{raw(5, 1, 12345)}}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
	p, _ := m.Process(5)
	if p.CPUPercent != 0 {
		t.Fatalf("first sighting CPU = %v, want exactly 0", p.CPUPercent)
	}
}

func TestSecondRefreshComputesCPU(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{UptimeSeconds: 10, Procs: []procfs.RawProc{raw(5, 1, 100)}}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
	r.snap.Procs[0].CPUTicks = 200 // +100 ticks over the 1s the fake clock advances
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	p, _ := m.Process(5)
	if p.CPUPercent != 100.0 {
		t.Fatalf("CPU = %v, want 100.0", p.CPUPercent)
	}
}

func TestRefreshFailureKeepsPreviousTable(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{UptimeSeconds: 10, Procs: []procfs.RawProc{raw(1, 0, 10)}}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	r.err = errors.New("proc unavailable")
	if err := m.Refresh(); err == nil {
		t.Fatal("expected a fatal refresh error")
	}
	if m.Count() != 1 {
		t.Fatalf("previous table must survive a failed refresh, size = %d", m.Count())
	}
	if m.estimator.Tracked() != 1 {
		t.Fatalf("history must survive a failed refresh, tracked = %d", m.estimator.Tracked())
	}

	// And the next cycle recovers.
	r.err = nil
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
}

func TestRepeatedRefreshIsStable(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{
		UptimeSeconds: 300,
		Procs:         []procfs.RawProc{raw(1, 0, 10), raw(2, 1, 20), raw(3, 2, 30)},
	}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
	first := m.Processes()
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
	second := m.Processes()

	if len(first) != len(second) {
		t.Fatalf("pid sets differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		// CPU percent may legitimately be recomputed; everything else must match.
		a.CPUPercent, b.CPUPercent = 0, 0
		if a != b {
			t.Fatalf("record changed across refreshes: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestHistoryPrunedForExitedPids(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{
		UptimeSeconds: 10,
		Procs:         []procfs.RawProc{raw(1, 0, 10), raw(2, 1, 20)},
	}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}
	r.snap.Procs = []procfs.RawProc{raw(1, 0, 15)}
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	if m.estimator.Tracked() != 1 {
		t.Fatalf("history must be pruned to live pids, tracked = %d", m.estimator.Tracked())
	}
}

func TestProcessesSortedByPid(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{
		UptimeSeconds: 10,
		Procs:         []procfs.RawProc{raw(30, 1, 1), raw(2, 1, 1), raw(700, 1, 1), raw(1, 0, 1)},
	}}
	m := newTestManager(r, &countingSignaller{}, adminSession())
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	procs := m.Processes()
	for i := 1; i < len(procs); i++ {
		if procs[i-1].PID >= procs[i].PID {
			t.Fatalf("not sorted: %v", procs)
		}
	}
}

func TestBuildTreeOverCurrentTable(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{
		UptimeSeconds: 10,
		Procs:         []procfs.RawProc{raw(1, 0, 1), raw(2, 1, 1), raw(3, 2, 1)},
	}}
	m := newTestManager(r, &countingSignaller{}, adminSession())
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	tree := m.BuildTree(1)
	if tree == nil || tree.Root == nil || tree.Root.Process.PID != 1 {
		t.Fatalf("tree = %+v", tree)
	}

	// An absent root leaves Root nil but the processes stay visible as
	// orphan roots.
	stray := m.BuildTree(99)
	if stray == nil || stray.Root != nil {
		t.Fatalf("absent root should yield orphan roots only, got %+v", stray)
	}
	if stray.Find(1) == nil || stray.Find(3) == nil {
		t.Fatalf("processes must not vanish with the root: %+v", stray.Orphans)
	}
}

func TestNormalSessionOperationsMakeNoOSCalls(t *testing.T) {
	sig := &countingSignaller{}
	r := &stubReader{snap: &procfs.Snapshot{UptimeSeconds: 10, Procs: []procfs.RawProc{raw(1, 0, 1)}}}
	m := newTestManager(r, sig, session.Session{ID: 1000, Name: "alice", Privilege: session.Normal})
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	if err := m.Kill(1); !errors.Is(err, session.ErrPermissionDenied) {
		t.Fatalf("kill: %v", err)
	}
	if err := m.SetPriority(1, 5); !errors.Is(err, session.ErrPermissionDenied) {
		t.Fatalf("renice: %v", err)
	}
	if _, err := m.KillDescendants(1, false); !errors.Is(err, session.ErrPermissionDenied) {
		t.Fatalf("killtree: %v", err)
	}
	if sig.signals != 0 || sig.priorities != 0 {
		t.Fatalf("stubbed OS layer must record zero calls, got %d/%d", sig.signals, sig.priorities)
	}
}

func TestBatchKillAggregates(t *testing.T) {
	sig := &countingSignaller{failPIDs: map[int]bool{2: true}}
	r := &stubReader{snap: &procfs.Snapshot{UptimeSeconds: 10, Procs: []procfs.RawProc{raw(1, 0, 1)}}}
	m := newTestManager(r, sig, adminSession())

	res, err := m.BatchKill([]int{1, 2, 3}, true)
	if err != nil {
		t.Fatalf("batch must not propagate per-target failure: %v", err)
	}
	if res.Succeeded != 2 || res.Failed != 1 {
		t.Fatalf("got %s, want 2 succeeded / 1 failed", res)
	}
}

func TestKillDescendantsNeedsATree(t *testing.T) {
	r := &stubReader{snap: &procfs.Snapshot{UptimeSeconds: 10}}
	m := newTestManager(r, &countingSignaller{}, adminSession())

	// No refresh yet: empty table, no tree.
	if _, err := m.KillDescendants(42, false); err == nil {
		t.Fatal("expected an error when no tree is available")
	}
}

func TestKillDescendantsThroughManager(t *testing.T) {
	sig := &countingSignaller{}
	r := &stubReader{snap: &procfs.Snapshot{
		UptimeSeconds: 10,
		Procs:         []procfs.RawProc{raw(1, 0, 1), raw(2, 1, 1), raw(3, 2, 1)},
	}}
	m := newTestManager(r, sig, adminSession())
	if err := m.Refresh(); err != nil {
		t.Fatal(err)
	}

	res, err := m.KillDescendants(2, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Killed) != 1 || res.Killed[0] != 3 {
		t.Fatalf("killed = %v, want [3]", res.Killed)
	}
}
