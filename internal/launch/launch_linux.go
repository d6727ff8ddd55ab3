//go:build linux

// Package launch starts new processes on behalf of the operator, either
// blocking until exit or detached into their own session.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/procman-io/procman/internal/logging"
	"github.com/procman-io/procman/internal/session"
)

var log = logging.L("launch")

// Foreground runs the command attached to the current terminal and waits for
// it. The child's exit code is returned; a nonzero code is not an error.
func Foreground(guard *session.Guard, name string, args ...string) (int, error) {
	if err := guard.Require(); err != nil {
		return 0, err
	}

	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("run %s: %w", name, err)
	}
	return 0, nil
}

// Background starts the command detached in its own session with stdio on
// /dev/null and returns its pid immediately. The child is reaped from a
// goroutine, so it never lingers as an exited-but-unwaited zombie while this
// process lives.
func Background(guard *session.Guard, name string, args ...string) (int, error) {
	if err := guard.Require(); err != nil {
		return 0, err
	}

	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", name, err)
	}

	pid := cmd.Process.Pid
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("background child exited", logging.KeyPID, pid, logging.KeyError, err)
		}
	}()

	log.Info("background process started", logging.KeyPID, pid, "command", name)
	return pid, nil
}
