//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd

package rawline

// TerminalAttributes is empty on this platform: raw-mode editing is not
// supported and every Device reports that it is not a terminal.
type TerminalAttributes struct {
	session uint64
}

// Raw returns a unchanged.
func (a TerminalAttributes) Raw() TerminalAttributes { return a }

// Canonical always reports true on this platform.
func (a TerminalAttributes) Canonical() bool { return true }

// Echo always reports true on this platform.
func (a TerminalAttributes) Echo() bool { return true }

// Equal always reports true on this platform.
func (a TerminalAttributes) Equal(b TerminalAttributes) bool { return true }

type noTerminal struct{}

// Stdin returns a Device that is never a terminal.
func Stdin() Device { return noTerminal{} }

// NewDevice returns a Device that is never a terminal.
func NewDevice(fd int) Device { return noTerminal{} }

func (noTerminal) IsTerminal() bool { return false }

func (noTerminal) Attributes() (TerminalAttributes, error) {
	return TerminalAttributes{}, ErrNotATerminal
}

func (noTerminal) Apply(TerminalAttributes, bool) error {
	return ErrNotATerminal
}
