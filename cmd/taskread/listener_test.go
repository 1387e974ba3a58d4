//go:build linux || darwin || freebsd || openbsd || netbsd

package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/taskmaster/rawline"
)

type readResult struct {
	line string
	err  error
}

type fakeSession struct {
	started chan string
	results chan readResult

	mu        sync.Mutex
	shutdowns int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		started: make(chan string, 4),
		results: make(chan readResult, 4),
	}
}

func (f *fakeSession) RunReadSession(prompt string) (string, error) {
	f.started <- prompt
	r := <-f.results
	return r.line, r.err
}

func (f *fakeSession) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdowns++
	return nil
}

// syncBuffer is written by session goroutines and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestListener(sess readSession, once bool) (*listener, *syncBuffer) {
	out := &syncBuffer{}
	return &listener{
		sess:    sess,
		trigger: unix.SIGUSR1,
		prompt:  "taskmaster> ",
		once:    once,
		out:     out,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, out
}

func TestServeOnce(t *testing.T) {
	sess := newFakeSession()
	l, out := newTestListener(sess, true)
	sigs := make(chan os.Signal, 1)
	sigs <- unix.SIGUSR1
	sess.results <- readResult{line: "hello"}

	if code := l.serve(sigs); code != rawline.ExitOK {
		t.Fatalf("serve() = %d, want %d", code, rawline.ExitOK)
	}
	if got := <-sess.started; got != "taskmaster> " {
		t.Fatalf("prompt = %q", got)
	}
	if out.String() != "hello\n" {
		t.Fatalf("diagnostic output = %q", out.String())
	}
}

func TestServeRepeatsUntilTerminated(t *testing.T) {
	sess := newFakeSession()
	// unbuffered so each result goes to the session that is currently reading
	sess.results = make(chan readResult)
	l, out := newTestListener(sess, false)
	sigs := make(chan os.Signal)
	done := make(chan int)
	go func() { done <- l.serve(sigs) }()

	for _, line := range []string{"status", "stop web"} {
		sigs <- unix.SIGUSR1
		<-sess.started
		sess.results <- readResult{line: line}
	}
	// a failed read does not stop the loop
	sigs <- unix.SIGUSR1
	<-sess.started
	sess.results <- readResult{err: io.EOF}

	sigs <- unix.SIGTERM
	if code := <-done; code != 128+int(unix.SIGTERM) {
		t.Fatalf("serve() = %d", code)
	}
	got := out.String()
	if !strings.Contains(got, "status\n") || !strings.Contains(got, "stop web\n") || strings.Count(got, "\n") != 2 {
		t.Fatalf("diagnostic output = %q", got)
	}
	if sess.shutdowns != 1 {
		t.Fatalf("Shutdown called %d times", sess.shutdowns)
	}
}

func TestServeTerminatedDuringRead(t *testing.T) {
	sess := newFakeSession()
	l, _ := newTestListener(sess, true)
	sigs := make(chan os.Signal)
	done := make(chan int)
	go func() { done <- l.serve(sigs) }()

	sigs <- unix.SIGUSR1
	<-sess.started
	sigs <- unix.SIGINT

	if code := <-done; code != 128+int(unix.SIGINT) {
		t.Fatalf("serve() = %d", code)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.shutdowns != 1 {
		t.Fatal("sessions not shut down on termination")
	}
}

func TestServeSessionErrors(t *testing.T) {
	tests := []struct {
		name    string
		results []readResult
		want    int
		message string
	}{
		{
			name:    "not a terminal is fatal",
			results: []readResult{{err: &rawline.SessionError{Kind: rawline.NotATerminal}}},
			want:    rawline.ExitNotATerminal,
			message: "not a terminal",
		},
		{
			name: "capability lookup is fatal",
			results: []readResult{{err: &rawline.SessionError{
				Kind: rawline.EnvironmentInvalid,
				Err:  &rawline.EnvironmentError{Kind: rawline.CapabilityLookupFailed, Term: "vt-nonsense"},
			}}},
			want:    rawline.ExitCapabilityLookupFailed,
			message: "vt-nonsense",
		},
		{
			name:    "aborted read ends a single session",
			results: []readResult{{err: rawline.ErrPromptAborted}},
			want:    rawline.ExitReadFailed,
		},
		{
			name: "overlapping trigger is ignored",
			results: []readResult{
				{err: &rawline.SessionError{Kind: rawline.SessionAlreadyActive}},
				{line: "ok"},
			},
			want: rawline.ExitOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newFakeSession()
			l, out := newTestListener(sess, true)
			sigs := make(chan os.Signal, len(tt.results))
			for _, r := range tt.results {
				sigs <- unix.SIGUSR1
				sess.results <- r
			}

			if code := l.serve(sigs); code != tt.want {
				t.Fatalf("serve() = %d, want %d", code, tt.want)
			}
			if tt.message != "" && !strings.Contains(out.String(), tt.message) {
				t.Fatalf("diagnostic output %q does not mention %q", out.String(), tt.message)
			}
			if errors.Is(tt.results[0].err, rawline.ErrSessionAlreadyActive) && out.String() != "ok\n" {
				t.Fatalf("diagnostic output = %q", out.String())
			}
		})
	}
}

// ttyDevice is an in-memory terminal for driving a real rawline.Controller.
type ttyDevice struct {
	mu      sync.Mutex
	current rawline.TerminalAttributes
}

func (d *ttyDevice) IsTerminal() bool { return true }

func (d *ttyDevice) Attributes() (rawline.TerminalAttributes, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *ttyDevice) Apply(attrs rawline.TerminalAttributes, _ bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = attrs
	return nil
}

func (d *ttyDevice) attrs() rawline.TerminalAttributes {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

type validatorFunc func() error

func (f validatorFunc) Validate() error { return f() }

type readerFunc func(prompt string, h rawline.HistorySource, c rawline.Completer) (string, error)

func (f readerFunc) ReadLine(prompt string, h rawline.HistorySource, c rawline.Completer) (string, error) {
	return f(prompt, h, c)
}

// finishedSession reports each completed RunReadSession on done.
type finishedSession struct {
	*rawline.Controller
	done chan error
}

func (s finishedSession) RunReadSession(prompt string) (string, error) {
	line, err := s.Controller.RunReadSession(prompt)
	s.done <- err
	return line, err
}

// The Controller's shutdown state is process-wide, so this is the only test
// in the package that drives a real Controller.
func TestServeTerminatedBeforeSessionOpens(t *testing.T) {
	cooked := rawline.NewTerminalAttributes(unix.Termios{Lflag: unix.ICANON | unix.ECHO})
	dev := &ttyDevice{current: cooked}
	release := make(chan struct{})
	ctrl := rawline.NewController(
		rawline.WithDevice(dev),
		rawline.WithValidator(validatorFunc(func() error {
			time.Sleep(time.Millisecond)
			return nil
		})),
		rawline.WithLineReader(readerFunc(func(string, rawline.HistorySource, rawline.Completer) (string, error) {
			<-release
			return "late", nil
		})),
	)
	sess := finishedSession{Controller: ctrl, done: make(chan error, 1)}
	l, _ := newTestListener(sess, false)

	sigs := make(chan os.Signal, 2)
	sigs <- unix.SIGUSR1
	sigs <- unix.SIGINT
	if code := l.serve(sigs); code != 128+int(unix.SIGINT) {
		t.Fatalf("serve() = %d", code)
	}

	close(release)
	select {
	case err := <-sess.done:
		if err != nil && !errors.Is(err, rawline.ErrShuttingDown) {
			t.Fatalf("session error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("read session did not finish")
	}
	if rawline.Active() {
		t.Fatal("session left active after termination")
	}
	if got := dev.attrs(); !got.Equal(cooked) || !got.Canonical() || !got.Echo() {
		t.Fatal("terminal left in raw mode after termination")
	}

	if _, err := ctrl.RunReadSession("> "); !errors.Is(err, rawline.ErrShuttingDown) {
		t.Fatalf("RunReadSession() after termination error = %v, want ShuttingDown", err)
	}
	if !dev.attrs().Equal(cooked) {
		t.Fatal("session opened after termination")
	}
}
