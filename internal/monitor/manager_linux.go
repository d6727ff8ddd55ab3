//go:build linux

package monitor

import (
	"github.com/procman-io/procman/internal/ops"
	"github.com/procman-io/procman/internal/procfs"
	"github.com/procman-io/procman/internal/session"
)

// NewSystem wires a manager against the live system.
func NewSystem(sess session.Session, rootPID int) *Manager {
	return New(procfs.NewReader(), procfs.NewPlatform(), ops.NewSignaller(), sess, rootPID)
}
