// Package ops issues control actions (signals, priority changes) against
// live processes, behind the session permission gate.
package ops

// Signal is a control signal kind, kept OS-neutral so the dispatcher can be
// exercised with a recording stub.
type Signal int

const (
	SigKill Signal = iota // unconditional, immediate termination
	SigTerm               // cooperative termination request
	SigStop               // suspend scheduling
	SigCont               // resume scheduling
)

func (s Signal) String() string {
	switch s {
	case SigKill:
		return "SIGKILL"
	case SigTerm:
		return "SIGTERM"
	case SigStop:
		return "SIGSTOP"
	case SigCont:
		return "SIGCONT"
	}
	return "SIG?"
}

// Signaller is the OS primitive surface. Calls return as soon as the OS
// accepts delivery; nothing waits for the target to handle the signal.
type Signaller interface {
	Signal(pid int, sig Signal) error
	SetPriority(pid int, nice int) error
}
