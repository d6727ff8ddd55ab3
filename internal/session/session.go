// Package session holds the identity and privilege level of the operator and
// the single checkpoint every state-changing operation passes through.
package session

import (
	"errors"
	"fmt"
	"os"
	"os/user"
)

// Privilege is the session's privilege level.
type Privilege int

const (
	Normal Privilege = iota
	Admin
)

func (p Privilege) String() string {
	if p == Admin {
		return "admin"
	}
	return "normal"
}

// ErrPermissionDenied is returned by Guard.Require for non-admin sessions.
var ErrPermissionDenied = errors.New("permission denied: admin privileges required")

// Session identifies the active operator. It is immutable for its duration.
type Session struct {
	ID        int
	Name      string
	Privilege Privilege
}

// Current derives a session from the invoking user: effective uid 0 is Admin,
// anything else is Normal.
func Current() Session {
	uid := os.Geteuid()
	name := "unknown"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	priv := Normal
	if uid == 0 {
		priv = Admin
	}
	return Session{ID: uid, Name: name, Privilege: priv}
}

// IsAdmin reports whether the session holds admin privileges.
func (s Session) IsAdmin() bool {
	return s.Privilege == Admin
}

// Guard gates state-changing operations on the session's privilege level.
// The check happens strictly before any OS call is issued.
type Guard struct {
	session Session
}

// NewGuard binds a guard to a session.
func NewGuard(s Session) *Guard {
	return &Guard{session: s}
}

// Require returns ErrPermissionDenied unless the session is Admin.
func (g *Guard) Require() error {
	if g.session.Privilege != Admin {
		return fmt.Errorf("%w (session %q)", ErrPermissionDenied, g.session.Name)
	}
	return nil
}

// Session returns the guarded session.
func (g *Guard) Session() Session {
	return g.session
}
