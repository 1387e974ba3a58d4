//go:build linux || darwin || freebsd || openbsd || netbsd

package main

import (
	"errors"
	"flag"

	"github.com/taskmaster/rawline/internal/config"
)

type cliArgs struct {
	configPath string
	prompt     string
	signal     string
	once       bool
	logFile    string
	logLevel   string

	set map[string]bool
}

// newFlagSet returns the command-line flag set. Parse errors are returned
// rather than exiting, so a bad flag reports exitConfig and not a status
// that belongs to a terminal failure.
func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("taskread", flag.ContinueOnError)
}

// flagExitCode is the process status for an error from parseFlags.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return exitConfig
}

func parseFlags(fs *flag.FlagSet, argv []string) (cliArgs, error) {
	args := cliArgs{set: map[string]bool{}}

	fs.StringVar(&args.configPath, "config", config.DefaultPath(), "Path to the YAML configuration file")
	fs.StringVar(&args.prompt, "prompt", config.DefaultPrompt, "Prompt shown when a read session starts")
	fs.StringVar(&args.signal, "signal", config.DefaultSignal, "Signal that starts a read session (USR1, USR2, HUP)")
	fs.BoolVar(&args.once, "once", false, "Exit after the first read session")
	fs.StringVar(&args.logFile, "log-file", "", "Log file path, or \"off\"")
	fs.StringVar(&args.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := fs.Parse(argv); err != nil {
		return args, err
	}
	fs.Visit(func(f *flag.Flag) { args.set[f.Name] = true })
	return args, nil
}

// apply overrides cfg with the flags given explicitly on the command line.
func (a cliArgs) apply(cfg *config.Config) {
	if a.set["prompt"] {
		cfg.Prompt = a.prompt
	}
	if a.set["signal"] {
		cfg.Signal = a.signal
	}
	if a.set["once"] {
		cfg.Once = a.once
	}
	if a.set["log-file"] {
		cfg.LogFile = a.logFile
	}
	if a.set["log-level"] {
		cfg.LogLevel = a.logLevel
	}
}
