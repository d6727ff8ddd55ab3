//go:build linux

package launch

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/procman-io/procman/internal/session"
)

func adminGuard() *session.Guard {
	return session.NewGuard(session.Session{ID: 0, Name: "root", Privilege: session.Admin})
}

func TestForegroundRequiresAdmin(t *testing.T) {
	g := session.NewGuard(session.Session{ID: 1000, Name: "alice", Privilege: session.Normal})
	if _, err := Foreground(g, "true"); !errors.Is(err, session.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
	if _, err := Background(g, "true"); !errors.Is(err, session.ErrPermissionDenied) {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}

func TestForegroundReturnsExitCode(t *testing.T) {
	code, err := Foreground(adminGuard(), "sh", "-c", "exit 3")
	if err != nil {
		t.Fatal(err)
	}
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}

	code, err = Foreground(adminGuard(), "true")
	if err != nil || code != 0 {
		t.Fatalf("true: code=%d err=%v", code, err)
	}
}

func TestForegroundMissingBinary(t *testing.T) {
	if _, err := Foreground(adminGuard(), "/nonexistent/binary"); err == nil {
		t.Fatal("expected spawn failure")
	}
}

func TestBackgroundReturnsLivePid(t *testing.T) {
	pid, err := Background(adminGuard(), "sleep", "5")
	if err != nil {
		t.Fatal(err)
	}
	if pid <= 0 {
		t.Fatalf("pid = %d", pid)
	}
	defer unix.Kill(pid, unix.SIGKILL)

	// Signal 0 probes existence without side effects.
	if err := unix.Kill(pid, 0); err != nil {
		t.Fatalf("background child should be alive: %v", err)
	}
}

func TestBackgroundChildIsReaped(t *testing.T) {
	pid, err := Background(adminGuard(), "true")
	if err != nil {
		t.Fatal(err)
	}

	// The reaper goroutine should collect the exit status promptly; after
	// that the pid no longer exists for us (no zombie child).
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if err := unix.Kill(pid, 0); err != nil {
			return // reaped
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("pid %d still visible; child was not reaped", pid)
}
