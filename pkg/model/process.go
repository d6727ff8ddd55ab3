package model

import "fmt"

// State is the lifecycle state of a process, reduced from the kernel's
// single-character state code.
type State string

const (
	StateRunning  State = "running"
	StateSleeping State = "sleeping"
	StateDiskWait State = "diskwait"
	StateZombie   State = "zombie"
	StateStopped  State = "stopped"
	StateOther    State = "other"
)

// StateFromCode maps a /proc stat state character to a State.
func StateFromCode(code byte) State {
	switch code {
	case 'R':
		return StateRunning
	case 'S':
		return StateSleeping
	case 'D':
		return StateDiskWait
	case 'Z':
		return StateZombie
	case 'T', 't':
		return StateStopped
	default:
		return StateOther
	}
}

// Process is one snapshot record. Records are rebuilt wholesale on every
// refresh; fields are never patched across cycles.
type Process struct {
	PID           int     `json:"pid" yaml:"pid"`
	PPID          int     `json:"ppid" yaml:"ppid"` // 0 = no parent (system root)
	UID           int     `json:"uid" yaml:"uid"`
	User          string  `json:"user" yaml:"user"`
	Name          string  `json:"name" yaml:"name"`
	State         State   `json:"state" yaml:"state"`
	CPUPercent    float64 `json:"cpuPercent" yaml:"cpuPercent"`
	ResidentBytes uint64  `json:"residentBytes" yaml:"residentBytes"`
	Nice          int     `json:"nice" yaml:"nice"`
	UptimeSeconds int64   `json:"uptimeSeconds" yaml:"uptimeSeconds"`
}

// ResidentMB returns the resident set size in megabytes.
func (p Process) ResidentMB() float64 {
	return float64(p.ResidentBytes) / 1024 / 1024
}

func (p Process) String() string {
	return fmt.Sprintf("%d (%s)", p.PID, p.Name)
}
