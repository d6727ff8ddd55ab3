package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/procman-io/procman/internal/output"
	"github.com/procman-io/procman/internal/session"
)

// chromeHeight is the lines taken by header, status, and footer around the
// table widget.
const chromeHeight = 7

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.treeMode {
		b.WriteString(m.treeView())
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := titleStyle.Render("procman")
	if m.mgr.Session().Privilege == session.Admin {
		title += " " + adminStyle.Render("[admin]")
	}
	if m.frozen {
		title += " " + frozenStyle.Render("[frozen]")
	}

	line := title + summaryStyle.Render(fmt.Sprintf("  %d processes  sort:%s", len(m.filtered), m.sortColumn))
	if m.filter != "" {
		line += summaryStyle.Render(fmt.Sprintf("  filter:%q", m.filter))
	}

	if s := m.summary; s != nil {
		line += "\n" + summaryStyle.Render(fmt.Sprintf(
			"%s  up %s  cpu %.1f%%  load %.2f %.2f %.2f  mem %d/%d MB (%.1f%%)",
			s.Hostname, output.FormatUptime(int64(s.UptimeSeconds)),
			s.CPUPercent, s.Load1, s.Load5, s.Load15,
			s.MemUsedMB, s.MemTotalMB, s.MemPercent))
	} else {
		line += "\n"
	}
	return line
}

func (m Model) treeView() string {
	var sb strings.Builder
	output.PrintTree(&sb, m.mgr.Tree())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	max := m.height - chromeHeight
	if max > 0 && len(lines) > max {
		lines = append(lines[:max-1], summaryStyle.Render(fmt.Sprintf("… %d more", len(lines)-max+1)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	switch m.prompt {
	case promptConfirmKill:
		return promptStyle.Render(fmt.Sprintf("kill %s (pid %d)? [y/n]", m.promptName, m.promptPID))
	case promptConfirmKillTree:
		return promptStyle.Render(fmt.Sprintf("kill %s (pid %d) and all descendants? [y/n]", m.promptName, m.promptPID))
	case promptRenice:
		return promptStyle.Render(fmt.Sprintf("renice %s (pid %d): ", m.promptName, m.promptPID)) + m.input.View()
	case promptFilter:
		return promptStyle.Render("filter: ") + m.input.View()
	}
	if m.lastErr != nil {
		return errorStyle.Render("error: " + m.lastErr.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) footerView() string {
	parts := make([]string, 0, 12)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, " · "))
}

func tableColumns(width int) []table.Column {
	// NAME absorbs whatever is left after the fixed columns.
	nameWidth := width - (7 + 10 + 9 + 6 + 9 + 5 + 8) - 10
	if nameWidth < 16 {
		nameWidth = 16
	}
	return []table.Column{
		{Title: "PID", Width: 7},
		{Title: "USER", Width: 10},
		{Title: "STATE", Width: 9},
		{Title: "CPU%", Width: 6},
		{Title: "MEM MB", Width: 9},
		{Title: "NI", Width: 5},
		{Title: "UPTIME", Width: 8},
		{Title: "NAME", Width: nameWidth},
	}
}
