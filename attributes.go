//go:build linux || darwin || freebsd || openbsd || netbsd

package rawline

import "golang.org/x/sys/unix"

// TerminalAttributes is a snapshot of a terminal's line discipline. A value
// returned by Controller.OpenSession is the restore token for that session;
// it is never modified after capture.
type TerminalAttributes struct {
	termios unix.Termios
	session uint64
}

// NewTerminalAttributes wraps t. It is mainly useful for Device
// implementations.
func NewTerminalAttributes(t unix.Termios) TerminalAttributes {
	return TerminalAttributes{termios: t}
}

// Termios returns a copy of the captured termios structure.
func (a TerminalAttributes) Termios() unix.Termios {
	return a.termios
}

// Raw derives the raw-mode variant of a: canonical input and echo off, reads
// satisfied by a single byte with no inter-byte timeout. Every other field
// is carried over unchanged.
func (a TerminalAttributes) Raw() TerminalAttributes {
	raw := a
	raw.termios.Lflag &^= unix.ICANON | unix.ECHO
	raw.termios.Cc[unix.VMIN] = 1
	raw.termios.Cc[unix.VTIME] = 0
	return raw
}

// Canonical reports whether line-buffered input is enabled.
func (a TerminalAttributes) Canonical() bool {
	return a.termios.Lflag&unix.ICANON != 0
}

// Echo reports whether input echo is enabled.
func (a TerminalAttributes) Echo() bool {
	return a.termios.Lflag&unix.ECHO != 0
}

// Equal reports whether a and b describe the same line discipline.
func (a TerminalAttributes) Equal(b TerminalAttributes) bool {
	return a.termios == b.termios
}
