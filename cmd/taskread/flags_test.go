//go:build linux || darwin || freebsd || openbsd || netbsd

package main

import (
	"flag"
	"io"
	"testing"

	"github.com/taskmaster/rawline"

	"github.com/taskmaster/rawline/internal/config"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("taskread", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	args, err := parseFlags(fs, []string{"-once", "-signal", "USR2"})
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Prompt = "from file> "
	cfg.LogLevel = "debug"
	args.apply(&cfg)

	if !cfg.Once || cfg.Signal != "USR2" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Prompt != "from file> " || cfg.LogLevel != "debug" {
		t.Fatalf("unset flags overrode the config: %+v", cfg)
	}
}

func TestTriggersCoverConfigSignals(t *testing.T) {
	for _, name := range config.Signals {
		if triggers[name] == nil {
			t.Errorf("no signal for %q", name)
		}
	}
}

func TestFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"unknown flag", []string{"-bogus"}, exitConfig},
		{"missing value", []string{"-signal"}, exitConfig},
		{"help", []string{"-h"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet()
			fs.SetOutput(io.Discard)
			_, err := parseFlags(fs, tt.argv)
			if err == nil {
				t.Fatal("parseFlags() succeeded")
			}
			if got := flagExitCode(err); got != tt.want {
				t.Fatalf("flagExitCode(%v) = %d, want %d", err, got, tt.want)
			}
		})
	}
}

func TestExitConfigDistinct(t *testing.T) {
	for _, code := range []int{
		rawline.ExitOK,
		rawline.ExitReadFailed,
		rawline.ExitNotATerminal,
		rawline.ExitNoTerminalType,
		rawline.ExitCapabilityLookupFailed,
		rawline.ExitSessionAlreadyActive,
		rawline.ExitAttributeQueryFailed,
		rawline.ExitAttributeApplyFailed,
		rawline.ExitEnvironmentInvalid,
		rawline.ExitShuttingDown,
	} {
		if code == exitConfig {
			t.Fatalf("exitConfig %d collides with a session exit status", exitConfig)
		}
	}
	if newFlagSet().ErrorHandling() != flag.ContinueOnError {
		t.Fatal("flag set exits the process on a parse error")
	}
}
