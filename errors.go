package rawline

import (
	"errors"
	"fmt"
)

// EnvironmentErrorKind classifies why the environment cannot support raw-mode editing.
type EnvironmentErrorKind int

const (
	// NoTerminalType means TERM is unset or empty.
	NoTerminalType EnvironmentErrorKind = iota + 1
	// CapabilityLookupFailed means the capability database could not be read
	// or has no entry for the configured terminal type.
	CapabilityLookupFailed
)

func (k EnvironmentErrorKind) String() string {
	switch k {
	case NoTerminalType:
		return "no terminal type"
	case CapabilityLookupFailed:
		return "capability lookup failed"
	}
	return fmt.Sprintf("EnvironmentErrorKind(%d)", int(k))
}

// EnvironmentError is returned by Validator.Validate.
type EnvironmentError struct {
	Kind EnvironmentErrorKind
	Term string
	Err  error
}

func (e *EnvironmentError) Error() string {
	msg := e.Kind.String()
	if e.Term != "" {
		msg += fmt.Sprintf(" for %q", e.Term)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// Is reports whether target is an *EnvironmentError of the same kind, so the
// Err* sentinels below match any error of their kind.
func (e *EnvironmentError) Is(target error) bool {
	t, ok := target.(*EnvironmentError)
	return ok && t.Kind == e.Kind
}

// SessionErrorKind classifies a failed session operation.
type SessionErrorKind int

const (
	// NotATerminal means standard input is not an interactive terminal.
	NotATerminal SessionErrorKind = iota + 1
	// EnvironmentInvalid means the environment check failed; Err holds the
	// cause, normally an *EnvironmentError.
	EnvironmentInvalid
	// SessionAlreadyActive means another session holds the terminal.
	SessionAlreadyActive
	// AttributeQueryFailed means the terminal attributes could not be read.
	AttributeQueryFailed
	// AttributeApplyFailed means new attributes could not be installed.
	AttributeApplyFailed
	// ShuttingDown means Controller.Shutdown has been called.
	ShuttingDown
)

func (k SessionErrorKind) String() string {
	switch k {
	case NotATerminal:
		return "standard input is not a terminal"
	case EnvironmentInvalid:
		return "terminal environment invalid"
	case SessionAlreadyActive:
		return "raw-mode session already active"
	case AttributeQueryFailed:
		return "cannot read terminal attributes"
	case AttributeApplyFailed:
		return "cannot apply terminal attributes"
	case ShuttingDown:
		return "terminal sessions shut down"
	}
	return fmt.Sprintf("SessionErrorKind(%d)", int(k))
}

// SessionError is returned by the Controller operations.
type SessionError struct {
	Kind SessionErrorKind
	Err  error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *SessionError) Unwrap() error { return e.Err }

// Is reports whether target is a *SessionError of the same kind, so the
// Err* sentinels below match any error of their kind.
func (e *SessionError) Is(target error) bool {
	t, ok := target.(*SessionError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNoTerminalType         error = &EnvironmentError{Kind: NoTerminalType}
	ErrCapabilityLookupFailed error = &EnvironmentError{Kind: CapabilityLookupFailed}

	ErrNotATerminal         error = &SessionError{Kind: NotATerminal}
	ErrEnvironmentInvalid   error = &SessionError{Kind: EnvironmentInvalid}
	ErrSessionAlreadyActive error = &SessionError{Kind: SessionAlreadyActive}
	ErrAttributeQueryFailed error = &SessionError{Kind: AttributeQueryFailed}
	ErrAttributeApplyFailed error = &SessionError{Kind: AttributeApplyFailed}
	ErrShuttingDown         error = &SessionError{Kind: ShuttingDown}
)

// ErrPromptAborted is returned by Editor.ReadLine when the user presses Ctrl-C.
var ErrPromptAborted = errors.New("prompt aborted")

// Process exit statuses, one per failure category.
const (
	ExitOK = iota
	ExitReadFailed
	ExitNotATerminal
	ExitNoTerminalType
	ExitCapabilityLookupFailed
	ExitSessionAlreadyActive
	ExitAttributeQueryFailed
	ExitAttributeApplyFailed
	ExitEnvironmentInvalid
	ExitShuttingDown
)

// ExitCode maps err to a distinct non-zero process status. Environment
// failures are reported by their own kind rather than as EnvironmentInvalid
// so that a missing TERM and a missing terminfo entry stay distinguishable.
// Any error outside the taxonomy came from the line reader.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNoTerminalType):
		return ExitNoTerminalType
	case errors.Is(err, ErrCapabilityLookupFailed):
		return ExitCapabilityLookupFailed
	case errors.Is(err, ErrNotATerminal):
		return ExitNotATerminal
	case errors.Is(err, ErrSessionAlreadyActive):
		return ExitSessionAlreadyActive
	case errors.Is(err, ErrAttributeQueryFailed):
		return ExitAttributeQueryFailed
	case errors.Is(err, ErrAttributeApplyFailed):
		return ExitAttributeApplyFailed
	case errors.Is(err, ErrEnvironmentInvalid):
		return ExitEnvironmentInvalid
	case errors.Is(err, ErrShuttingDown):
		return ExitShuttingDown
	}
	return ExitReadFailed
}
