//go:build linux || darwin || freebsd || openbsd || netbsd

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/taskmaster/rawline"
)

type readSession interface {
	RunReadSession(prompt string) (string, error)
	Shutdown() error
}

// listener runs one read session per trigger signal. Sessions run off the
// signal loop so a termination signal can still restore the terminal while
// a read is blocked. Termination shuts sessions down rather than only
// restoring the open one, so a session started by a trigger just before
// the termination signal cannot enter raw mode after the loop returns.
type listener struct {
	sess    readSession
	trigger os.Signal
	prompt  string
	once    bool
	out     io.Writer
	logger  *slog.Logger
}

func (l *listener) serve(sigs <-chan os.Signal) int {
	results := make(chan error)
	for {
		select {
		case sig := <-sigs:
			if sig == l.trigger {
				go l.readOnce(results)
				continue
			}
			l.logger.Info("terminating", "signal", sig.String())
			if err := l.sess.Shutdown(); err != nil {
				l.logger.Error("terminal restore on exit failed", "err", err)
				return rawline.ExitCode(err)
			}
			if s, ok := sig.(syscall.Signal); ok {
				return 128 + int(s)
			}
			return 1
		case err := <-results:
			code := rawline.ExitCode(err)
			switch {
			case err == nil:
				l.logger.Debug("line read")
			case errors.Is(err, rawline.ErrSessionAlreadyActive):
				l.logger.Warn("trigger ignored while a read is in progress")
				continue
			case code == rawline.ExitReadFailed:
				l.logger.Warn("line read failed", "err", err)
			default:
				l.logger.Error("read session failed", "err", err, "exit_code", code)
				fmt.Fprintf(l.out, "taskread: %v\n", err)
				return code
			}
			if l.once {
				return code
			}
		}
	}
}

func (l *listener) readOnce(results chan<- error) {
	line, err := l.sess.RunReadSession(l.prompt)
	if err == nil {
		fmt.Fprintln(l.out, line)
	}
	results <- err
}
