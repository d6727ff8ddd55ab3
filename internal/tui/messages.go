package tui

import (
	"time"

	"github.com/procman-io/procman/internal/sysinfo"
	"github.com/procman-io/procman/pkg/model"
)

// tickMsg drives the periodic refresh.
type tickMsg time.Time

// refreshMsg carries one completed refresh cycle.
type refreshMsg struct {
	procs   []model.Process
	summary *sysinfo.Summary
	err     error
}

// opResultMsg reports the outcome of a control operation.
type opResultMsg struct {
	action string
	pid    int
	detail string
	err    error
}
