//go:build linux

package procfs

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/procman-io/procman/internal/logging"
)

var log = logging.L("procfs")

// ProcReader reads snapshots from a /proc mount.
type ProcReader struct {
	root string // normally "/proc"
}

// NewReader returns a reader over the standard /proc mount.
func NewReader() *ProcReader {
	return &ProcReader{root: "/proc"}
}

// NewReaderAt returns a reader over an alternate proc root.
func NewReaderAt(root string) *ProcReader {
	return &ProcReader{root: root}
}

// Snapshot enumerates /proc and reads each pid's stat and status. Processes
// that exit or deny access mid-walk are skipped; the walk never fails part
// way. Only a failure to list /proc itself is an error.
func (r *ProcReader) Snapshot() (*Snapshot, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.root, err)
	}

	snap := &Snapshot{}

	// Uptime feeds per-process uptime derivation; without it every process
	// reads as zero, so the skew must at least be visible in the log.
	if data, err := os.ReadFile(filepath.Join(r.root, "uptime")); err != nil {
		log.Warn("uptime unreadable, process uptimes will read zero", logging.KeyError, err)
	} else if up, err := parseUptime(string(data)); err != nil {
		log.Warn("uptime unparsable, process uptimes will read zero", logging.KeyError, err)
	} else {
		snap.UptimeSeconds = up
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			// Not a pid directory.
			continue
		}

		raw, err := r.readOne(pid)
		if err != nil {
			// Raced with exit, or the kernel denied the read. Either way
			// this pid has no place in the snapshot.
			log.Debug("skipping pid", "pid", pid, "reason", err)
			continue
		}
		snap.Procs = append(snap.Procs, raw)
	}

	return snap, nil
}

func (r *ProcReader) readOne(pid int) (RawProc, error) {
	dir := filepath.Join(r.root, strconv.Itoa(pid))

	statData, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return RawProc{}, err
	}
	f, err := parseStat(string(statData))
	if err != nil {
		return RawProc{}, fmt.Errorf("pid %d: %w", pid, err)
	}

	statusData, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return RawProc{}, err
	}
	uid, err := parseStatusUID(string(statusData))
	if err != nil {
		return RawProc{}, fmt.Errorf("pid %d: %w", pid, err)
	}

	return RawProc{
		PID:        pid,
		PPID:       f.ppid,
		Comm:       f.comm,
		StateCode:  f.state,
		UID:        uid,
		User:       lookupUser(uid),
		RSSPages:   f.rssPages,
		Nice:       f.nice,
		CPUTicks:   f.cpuTicks,
		StartTicks: f.startTicks,
	}, nil
}

func lookupUser(uid int) string {
	if u, err := user.LookupId(strconv.Itoa(uid)); err == nil {
		return u.Username
	}
	return strconv.Itoa(uid)
}
