package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/procman-io/procman/internal/logging"
	"github.com/procman-io/procman/internal/output"
	"github.com/procman-io/procman/pkg/model"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(tableColumns(m.width))
		h := m.height - chromeHeight
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		m.applyRows()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.interval)}
		if !m.frozen {
			cmds = append(cmds, refreshCmd(m.mgr, m.collector))
		}
		return m, tea.Batch(cmds...)

	case refreshMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = nil
		m.procs = msg.procs
		m.summary = msg.summary
		m.applyRows()
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			log.Warn("operation failed", "action", msg.action, logging.KeyPID, msg.pid, logging.KeyError, msg.err)
			m.lastErr = fmt.Errorf("%s pid %d: %w", msg.action, msg.pid, msg.err)
			m.status = ""
			return m, nil
		}
		m.lastErr = nil
		m.status = fmt.Sprintf("%s pid %d", msg.action, msg.pid)
		if msg.detail != "" {
			m.status += " (" + msg.detail + ")"
		}
		return m, refreshCmd(m.mgr, m.collector)

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Freeze):
		m.frozen = !m.frozen
		return m, nil

	case key.Matches(msg, m.keys.Tree):
		m.treeMode = !m.treeMode
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortColumn = nextSortColumn(m.sortColumn)
		m.sortDesc = m.sortColumn != "pid" && m.sortColumn != "name" && m.sortColumn != "user"
		m.applyRows()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.prompt = promptFilter
		m.input.Placeholder = "name or user"
		m.input.SetValue(m.filter)
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Kill):
		if p, ok := m.selected(); ok {
			m.prompt = promptConfirmKill
			m.promptPID = p.PID
			m.promptName = p.Name
		}
		return m, nil

	case key.Matches(msg, m.keys.KillTree):
		if p, ok := m.selected(); ok {
			m.prompt = promptConfirmKillTree
			m.promptPID = p.PID
			m.promptName = p.Name
		}
		return m, nil

	case key.Matches(msg, m.keys.Terminate):
		if p, ok := m.selected(); ok {
			return m, opCmd("terminate", p.PID, func() error { return m.mgr.Terminate(p.PID) })
		}
		return m, nil

	case key.Matches(msg, m.keys.Suspend):
		if p, ok := m.selected(); ok {
			return m, opCmd("suspend", p.PID, func() error { return m.mgr.Pause(p.PID) })
		}
		return m, nil

	case key.Matches(msg, m.keys.Continue):
		if p, ok := m.selected(); ok {
			return m, opCmd("continue", p.PID, func() error { return m.mgr.Resume(p.PID) })
		}
		return m, nil

	case key.Matches(msg, m.keys.Renice):
		if p, ok := m.selected(); ok {
			m.prompt = promptRenice
			m.promptPID = p.PID
			m.promptName = p.Name
			m.input.Placeholder = "nice (-20..19)"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		return m.closePrompt(), nil
	}

	switch m.prompt {
	case promptConfirmKill, promptConfirmKillTree:
		switch msg.String() {
		case "y", "Y", "enter":
			kind, pid := m.prompt, m.promptPID
			next := m.closePrompt()
			if kind == promptConfirmKill {
				return next, opCmd("kill", pid, func() error { return m.mgr.Kill(pid) })
			}
			return next, killTreeCmd(m.mgr, pid)
		case "n", "N":
			return m.closePrompt(), nil
		}
		return m, nil

	case promptRenice:
		if msg.Type == tea.KeyEnter {
			value := strings.TrimSpace(m.input.Value())
			pid := m.promptPID
			next := m.closePrompt()
			nice, err := strconv.Atoi(value)
			if err != nil || nice < -20 || nice > 19 {
				next.lastErr = fmt.Errorf("invalid nice value %q", value)
				return next, nil
			}
			return next, opCmd("renice", pid, func() error { return m.mgr.SetPriority(pid, nice) })
		}

	case promptFilter:
		if msg.Type == tea.KeyEnter {
			m.filter = strings.TrimSpace(m.input.Value())
			next := m.closePrompt()
			next.applyRows()
			return next, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) closePrompt() Model {
	m.prompt = promptNone
	m.promptPID = 0
	m.promptName = ""
	m.input.Blur()
	m.input.SetValue("")
	return m
}

// selected returns the process under the cursor.
func (m Model) selected() (model.Process, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return model.Process{}, false
	}
	return m.filtered[i], true
}

// applyRows re-derives the filtered, sorted view and pushes it into the
// table widget, preserving the cursor where possible.
func (m *Model) applyRows() {
	m.filtered = filterProcesses(m.procs, m.filter)
	output.SortProcesses(m.filtered, m.sortColumn, m.sortDesc)

	rows := make([]table.Row, len(m.filtered))
	for i, p := range m.filtered {
		rows[i] = table.Row{
			strconv.Itoa(p.PID),
			p.User,
			string(p.State),
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.ResidentMB()),
			strconv.Itoa(p.Nice),
			output.FormatUptime(p.UptimeSeconds),
			p.Name,
		}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func filterProcesses(procs []model.Process, filter string) []model.Process {
	if filter == "" {
		out := make([]model.Process, len(procs))
		copy(out, procs)
		return out
	}
	needle := strings.ToLower(filter)
	var out []model.Process
	for _, p := range procs {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.User), needle) {
			out = append(out, p)
		}
	}
	return out
}

func nextSortColumn(current string) string {
	for i, c := range sortColumns {
		if c == current {
			return sortColumns[(i+1)%len(sortColumns)]
		}
	}
	return sortColumns[0]
}
