// Package procfs pulls flat point-in-time process listings from the /proc
// filesystem.
package procfs

// RawProc is one process as read from /proc, before any enrichment. CPU time
// and start time are in scheduler ticks; memory is in pages.
type RawProc struct {
	PID        int
	PPID       int
	Comm       string
	StateCode  byte
	UID        int
	User       string
	RSSPages   int64
	Nice       int
	CPUTicks   int64 // cumulative utime+stime
	StartTicks int64 // start time since boot
}

// Snapshot is one consistent listing: every process whose enumeration and
// detailed read both succeeded, plus the machine uptime captured alongside
// (used to derive per-process uptimes from start ticks).
type Snapshot struct {
	Procs         []RawProc
	UptimeSeconds float64
}

// Reader produces snapshots. A process vanishing or becoming unreadable
// between enumeration and read is skipped silently; only a failure of the
// enumeration itself is an error, and it leaves the caller's previous state
// untouched.
type Reader interface {
	Snapshot() (*Snapshot, error)
}
