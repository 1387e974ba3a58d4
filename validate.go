package rawline

import (
	"os"
	"strings"

	"github.com/xo/terminfo"
)

// CapabilityLookup finds the capability database entry for a terminal type.
// It returns a non-nil error if the database cannot be read or has no entry.
type CapabilityLookup func(termType string) error

// TerminfoLookup is the default CapabilityLookup. It searches the compiled
// terminfo database the same way ncurses does.
func TerminfoLookup(termType string) error {
	_, err := terminfo.Load(termType)
	return err
}

// EnvironmentValidator confirms that raw-mode editing is possible before a
// session touches the terminal.
type EnvironmentValidator interface {
	Validate() error
}

// Validator checks the TERM environment variable against the capability
// database.
type Validator struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
	// Lookup defaults to TerminfoLookup.
	Lookup CapabilityLookup
}

// NewValidator returns a Validator reading the process environment and the
// system terminfo database.
func NewValidator() *Validator {
	return &Validator{
		LookupEnv: os.LookupEnv,
		Lookup:    TerminfoLookup,
	}
}

// Validate returns nil if TERM names a terminal type with a capability
// entry, and an *EnvironmentError otherwise.
func (v *Validator) Validate() error {
	lookupEnv := v.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	lookup := v.Lookup
	if lookup == nil {
		lookup = TerminfoLookup
	}

	termType, _ := lookupEnv("TERM")
	termType = strings.TrimSpace(termType)
	if termType == "" {
		return &EnvironmentError{Kind: NoTerminalType}
	}
	if err := lookup(termType); err != nil {
		return &EnvironmentError{Kind: CapabilityLookupFailed, Term: termType, Err: err}
	}
	return nil
}
