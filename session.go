package rawline

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Device is the terminal whose line discipline a Controller manages.
type Device interface {
	// IsTerminal reports whether the device is an interactive terminal.
	IsTerminal() bool
	// Attributes queries the current line discipline.
	Attributes() (TerminalAttributes, error)
	// Apply installs attrs. With flush set, unread input is discarded
	// before the new attributes take effect.
	Apply(attrs TerminalAttributes, flush bool) error
}

// The controlling terminal is shared by the whole process, so at most one
// session may hold it in raw mode at a time. Once shutdown is set no
// further session may open.
var active struct {
	sync.Mutex
	open     bool
	shutdown bool
	gen      uint64
	dev      Device
	token    TerminalAttributes
}

// Controller opens and closes raw-mode sessions on a terminal.
type Controller struct {
	dev       Device
	validator EnvironmentValidator
	reader    LineReader
	logger    *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithDevice sets the terminal to manage. The default is Stdin().
func WithDevice(d Device) Option {
	return func(c *Controller) { c.dev = d }
}

// WithValidator replaces the environment check run before raw mode is entered.
func WithValidator(v EnvironmentValidator) Option {
	return func(c *Controller) { c.validator = v }
}

// WithLineReader sets the line editor used by RunReadSession. The default
// is an Editor on standard input and output.
func WithLineReader(r LineReader) Option {
	return func(c *Controller) { c.reader = r }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController returns a Controller for standard input.
func NewController(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.dev == nil {
		c.dev = Stdin()
	}
	if c.validator == nil {
		c.validator = NewValidator()
	}
	if c.reader == nil {
		c.reader = NewEditor(os.Stdin, os.Stdout)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// OpenSession validates the environment, saves the terminal's attributes
// and switches it to raw mode. The returned attributes are the restore
// token and must be passed to CloseSession. On error the terminal has not
// been modified.
func (c *Controller) OpenSession() (TerminalAttributes, error) {
	active.Lock()
	defer active.Unlock()

	if active.shutdown {
		return TerminalAttributes{}, &SessionError{Kind: ShuttingDown}
	}
	if active.open {
		c.logger.Warn("raw-mode session already active", "session", active.gen)
		return TerminalAttributes{}, &SessionError{Kind: SessionAlreadyActive}
	}
	if !c.dev.IsTerminal() {
		return TerminalAttributes{}, &SessionError{Kind: NotATerminal}
	}
	if err := c.validator.Validate(); err != nil {
		c.logger.Warn("terminal environment rejected", "err", err)
		return TerminalAttributes{}, &SessionError{Kind: EnvironmentInvalid, Err: err}
	}

	saved, err := c.dev.Attributes()
	if err != nil {
		return TerminalAttributes{}, &SessionError{Kind: AttributeQueryFailed, Err: err}
	}
	saved.session = active.gen + 1

	if err := c.dev.Apply(saved.Raw(), true); err != nil {
		return TerminalAttributes{}, &SessionError{Kind: AttributeApplyFailed, Err: err}
	}

	active.gen = saved.session
	active.open = true
	active.dev = c.dev
	active.token = saved
	c.logger.Debug("raw mode entered", "session", saved.session)
	return saved, nil
}

// CloseSession puts the attributes captured by OpenSession back in place.
// Calling it again with the same token reapplies the same attributes. A
// token from an earlier session is ignored while a newer session is open,
// so it cannot take the newer session's terminal out of raw mode.
func (c *Controller) CloseSession(token TerminalAttributes) error {
	active.Lock()
	defer active.Unlock()
	return c.closeLocked(c.dev, token)
}

func (c *Controller) closeLocked(dev Device, token TerminalAttributes) error {
	if active.open && active.gen != token.session {
		c.logger.Warn("stale restore token ignored", "session", token.session, "active", active.gen)
		return nil
	}
	if err := dev.Apply(token, false); err != nil {
		c.logger.Error("terminal restore failed", "session", token.session, "err", err)
		return &SessionError{Kind: AttributeApplyFailed, Err: err}
	}
	if active.open && active.gen == token.session {
		active.open = false
		active.dev = nil
		active.token = TerminalAttributes{}
		c.logger.Debug("terminal restored", "session", token.session)
	}
	return nil
}

// RestoreActive closes whichever session is currently open, if any. It is
// meant for termination paths that cannot wait for the session's owner to
// return; the owner's own CloseSession call remains safe afterwards.
func (c *Controller) RestoreActive() error {
	active.Lock()
	defer active.Unlock()
	if !active.open {
		return nil
	}
	return c.closeLocked(active.dev, active.token)
}

// Shutdown restores any open session and stops new sessions from opening
// for the rest of the process lifetime. OpenSession fails with
// ErrShuttingDown afterwards without touching the terminal, so a session
// racing with process termination can never leave raw mode applied.
func (c *Controller) Shutdown() error {
	active.Lock()
	defer active.Unlock()
	active.shutdown = true
	if !active.open {
		return nil
	}
	return c.closeLocked(active.dev, active.token)
}

// Active reports whether a raw-mode session is open in this process.
func Active() bool {
	active.Lock()
	defer active.Unlock()
	return active.open
}

// RunReadSession opens a session, reads one line with prompt, and closes the
// session on every exit path. The line reader's result, including its
// error, is passed through unchanged once the terminal has been restored.
// A restore failure is reported as well, joined to any read error.
func (c *Controller) RunReadSession(prompt string) (line string, err error) {
	token, err := c.OpenSession()
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := c.CloseSession(token); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				err = errors.Join(err, cerr)
			}
		}
	}()

	line, err = c.reader.ReadLine(prompt, nil, nil)
	if err != nil {
		c.logger.Debug("line read failed", "session", token.session, "err", err)
	}
	return line, err
}
