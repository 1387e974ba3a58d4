//go:build linux || darwin || freebsd || openbsd || netbsd

package rawline

import (
	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

type ttyDevice struct {
	fd int
}

// Stdin returns the Device for standard input.
func Stdin() Device {
	return ttyDevice{fd: unix.Stdin}
}

// NewDevice returns the Device for the terminal open on fd.
func NewDevice(fd int) Device {
	return ttyDevice{fd: fd}
}

func (d ttyDevice) IsTerminal() bool {
	return isatty.IsTerminal(uintptr(d.fd))
}

func (d ttyDevice) Attributes() (TerminalAttributes, error) {
	t, err := unix.IoctlGetTermios(d.fd, getTermios)
	if err != nil {
		return TerminalAttributes{}, err
	}
	return TerminalAttributes{termios: *t}, nil
}

func (d ttyDevice) Apply(attrs TerminalAttributes, flush bool) error {
	req := uint(setTermios)
	if flush {
		req = setTermiosFlush
	}
	t := attrs.termios
	return unix.IoctlSetTermios(d.fd, req, &t)
}
