// Package tui is the interactive front end: a live, sortable process table
// with tree view and control keys, refreshed on a fixed tick.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/procman-io/procman/internal/logging"
	"github.com/procman-io/procman/internal/monitor"
	"github.com/procman-io/procman/internal/sysinfo"
	"github.com/procman-io/procman/pkg/model"
)

var log = logging.L("tui")

// promptKind tracks which modal prompt, if any, owns the keyboard.
type promptKind int

const (
	promptNone promptKind = iota
	promptConfirmKill
	promptConfirmKillTree
	promptRenice
	promptFilter
)

// sortColumns is the cycle order for the sort key.
var sortColumns = []string{"cpu", "memory", "pid", "name", "user", "uptime"}

// Model is the bubbletea model for the process view.
type Model struct {
	mgr       *monitor.Manager
	collector *sysinfo.Collector
	interval  time.Duration

	keys  KeyMap
	table table.Model
	input textinput.Model

	procs    []model.Process
	filtered []model.Process
	summary  *sysinfo.Summary

	sortColumn string
	sortDesc   bool
	filter     string
	treeMode   bool
	frozen     bool

	prompt     promptKind
	promptPID  int
	promptName string

	status  string
	lastErr error

	width    int
	height   int
	quitting bool
}

// Options configures the initial view state.
type Options struct {
	RefreshInterval time.Duration
	SortColumn      string
	SortDescending  bool
}

// New builds the model around an already-wired manager.
func New(mgr *monitor.Manager, opts Options) Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 2 * time.Second
	}
	if opts.SortColumn == "" {
		opts.SortColumn = "cpu"
		opts.SortDescending = true
	}

	t := table.New(
		table.WithColumns(tableColumns(0)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(tableStyles())

	in := textinput.New()
	in.CharLimit = 64

	return Model{
		mgr:        mgr,
		collector:  sysinfo.NewCollector(),
		interval:   opts.RefreshInterval,
		keys:       DefaultKeyMap(),
		table:      t,
		input:      in,
		sortColumn: opts.SortColumn,
		sortDesc:   opts.SortDescending,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(mgr *monitor.Manager, opts Options) error {
	p := tea.NewProgram(New(mgr, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.mgr, m.collector), tickCmd(m.interval))
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs one refresh cycle off the update loop.
func refreshCmd(mgr *monitor.Manager, collector *sysinfo.Collector) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Refresh()
		return refreshMsg{
			procs:   mgr.Processes(),
			summary: collector.Collect(),
			err:     err,
		}
	}
}

// opCmd runs one control operation and reports its outcome.
func opCmd(action string, pid int, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opResultMsg{action: action, pid: pid, err: fn()}
	}
}

func killTreeCmd(mgr *monitor.Manager, pid int) tea.Cmd {
	return func() tea.Msg {
		res, err := mgr.KillDescendants(pid, true)
		msg := opResultMsg{action: "kill tree", pid: pid, err: err}
		if err == nil {
			msg.detail = fmt.Sprintf("%d killed", len(res.Killed))
			if len(res.Failures) > 0 {
				msg.detail += fmt.Sprintf(", %d failed", len(res.Failures))
			}
		}
		return msg
	}
}
