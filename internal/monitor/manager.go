// Package monitor owns the live process table: it refreshes it from the
// snapshot reader, enriches records with CPU usage, and routes control
// requests through the permission guard into the dispatcher.
package monitor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/procman-io/procman/internal/logging"
	"github.com/procman-io/procman/internal/ops"
	"github.com/procman-io/procman/internal/procfs"
	"github.com/procman-io/procman/internal/proctree"
	"github.com/procman-io/procman/internal/session"
	"github.com/procman-io/procman/pkg/model"
)

var log = logging.L("monitor")

// DefaultRootPID is the conventional tree root (init/systemd).
const DefaultRootPID = 1

// Manager bundles the process table, the CPU-time history, and the active
// session behind one synchronization boundary. Refreshes are serialized by
// the mutex: a cycle runs to completion before its table becomes visible,
// and a failed cycle leaves the previous table and history untouched.
type Manager struct {
	mu         sync.Mutex
	reader     procfs.Reader
	platform   procfs.Platform
	estimator  *Estimator
	dispatcher *ops.Dispatcher
	sess       session.Session
	table      map[int]model.Process
	rootPID    int
	now        func() time.Time
}

// New wires a manager from its collaborators. All OS access flows through
// the injected reader, platform, and signaller, so tests run on stubs.
func New(reader procfs.Reader, platform procfs.Platform, sig ops.Signaller, sess session.Session, rootPID int) *Manager {
	if rootPID <= 0 {
		rootPID = DefaultRootPID
	}
	guard := session.NewGuard(sess)
	return &Manager{
		reader:     reader,
		platform:   platform,
		estimator:  NewEstimator(platform),
		dispatcher: ops.NewDispatcher(guard, sig),
		sess:       sess,
		table:      make(map[int]model.Process),
		rootPID:    rootPID,
		now:        time.Now,
	}
}

// Session returns the active session.
func (m *Manager) Session() session.Session {
	return m.sess
}

// RootPID returns the configured tree root.
func (m *Manager) RootPID() int {
	return m.rootPID
}

// Refresh replaces the process table with a fresh snapshot. On a fatal read
// error the previous table and CPU history remain intact and the error is
// returned; a later Refresh may succeed. A record enters the table only if
// both its enumeration and its detailed read succeeded.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.reader.Snapshot()
	if err != nil {
		log.Error("refresh failed, keeping previous table", logging.KeyError, err)
		return fmt.Errorf("refresh: %w", err)
	}

	at := m.now()
	hz := m.platform.TickHz()
	pageSize := m.platform.PageSize()

	next := make(map[int]model.Process, len(snap.Procs))
	for _, raw := range snap.Procs {
		uptime := int64(snap.UptimeSeconds - float64(raw.StartTicks)/float64(hz))
		if uptime < 0 {
			uptime = 0
		}
		next[raw.PID] = model.Process{
			PID:           raw.PID,
			PPID:          raw.PPID,
			UID:           raw.UID,
			User:          raw.User,
			Name:          raw.Comm,
			State:         model.StateFromCode(raw.StateCode),
			CPUPercent:    m.estimator.Percent(raw.PID, raw.CPUTicks, at),
			ResidentBytes: uint64(raw.RSSPages) * uint64(pageSize),
			Nice:          raw.Nice,
			UptimeSeconds: uptime,
		}
	}

	m.table = next

	live := make(map[int]struct{}, len(next))
	for pid := range next {
		live[pid] = struct{}{}
	}
	m.estimator.Prune(live)

	log.Debug("table refreshed", "processes", len(next))
	return nil
}

// Processes returns a pid-sorted copy of the current table.
func (m *Manager) Processes() []model.Process {
	m.mu.Lock()
	defer m.mu.Unlock()

	procs := make([]model.Process, 0, len(m.table))
	for _, p := range m.table {
		procs = append(procs, p)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })
	return procs
}

// Process looks up one record.
func (m *Manager) Process(pid int) (model.Process, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.table[pid]
	return p, ok
}

// Count returns the current table size.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table)
}

// BuildTree derives the hierarchy rooted at rootPID from the current table.
// Nil means no tree is available (empty table) — a normal transient state
// right after startup, before the first refresh.
func (m *Manager) BuildTree(rootPID int) *proctree.Tree {
	m.mu.Lock()
	defer m.mu.Unlock()
	return proctree.Build(m.table, rootPID)
}

// Tree builds the hierarchy at the configured root.
func (m *Manager) Tree() *proctree.Tree {
	return m.BuildTree(m.rootPID)
}

// Control operations. Each checks the permission guard before touching the
// OS and returns as soon as the OS acknowledges the request.

func (m *Manager) Kill(pid int) error              { return m.dispatcher.ForceKill(pid) }
func (m *Manager) Terminate(pid int) error         { return m.dispatcher.Terminate(pid) }
func (m *Manager) Pause(pid int) error             { return m.dispatcher.Pause(pid) }
func (m *Manager) Resume(pid int) error            { return m.dispatcher.Resume(pid) }
func (m *Manager) SetPriority(pid, nice int) error { return m.dispatcher.SetPriority(pid, nice) }

func (m *Manager) BatchKill(pids []int, force bool) (model.BatchResult, error) {
	return m.dispatcher.BatchKill(pids, force)
}

func (m *Manager) BatchPause(pids []int) (model.BatchResult, error) {
	return m.dispatcher.BatchPause(pids)
}

func (m *Manager) BatchResume(pids []int) (model.BatchResult, error) {
	return m.dispatcher.BatchResume(pids)
}

// KillDescendants kills everything below pid in the tree rooted at the
// configured root, deepest-first; pid itself dies last only when
// includeTarget is set.
func (m *Manager) KillDescendants(pid int, includeTarget bool) (model.TreeKillResult, error) {
	tree := m.Tree()
	if tree == nil {
		return model.TreeKillResult{}, fmt.Errorf("no process tree available (refresh first)")
	}
	return m.dispatcher.KillDescendants(tree, pid, includeTarget)
}
