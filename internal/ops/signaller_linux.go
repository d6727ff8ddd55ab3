//go:build linux

package ops

import (
	"golang.org/x/sys/unix"
)

// UnixSignaller delivers signals and priority changes through the kernel.
type UnixSignaller struct{}

func NewSignaller() *UnixSignaller {
	return &UnixSignaller{}
}

func (UnixSignaller) Signal(pid int, sig Signal) error {
	var s unix.Signal
	switch sig {
	case SigKill:
		s = unix.SIGKILL
	case SigTerm:
		s = unix.SIGTERM
	case SigStop:
		s = unix.SIGSTOP
	case SigCont:
		s = unix.SIGCONT
	}
	return unix.Kill(pid, s)
}

// SetPriority sets the process nice value. Out-of-range values are the
// kernel's call to reject; no pre-validation here.
func (UnixSignaller) SetPriority(pid int, nice int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, nice)
}
