//go:build linux || darwin || freebsd || openbsd || netbsd

// Command taskread waits for a signal, then reads one line from the
// terminal in raw mode and writes it to standard error.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/taskmaster/rawline"
	"github.com/taskmaster/rawline/internal/config"
	"github.com/taskmaster/rawline/internal/logging"
)

// exitConfig follows the rawline exit statuses.
const exitConfig = rawline.ExitShuttingDown + 1

var triggers = map[string]os.Signal{
	"USR1": unix.SIGUSR1,
	"USR2": unix.SIGUSR2,
	"HUP":  unix.SIGHUP,
}

func main() {
	os.Exit(run())
}

func run() int {
	args, err := parseFlags(newFlagSet(), os.Args[1:])
	if err != nil {
		return flagExitCode(err)
	}

	cfg, err := config.Load(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskread: %v\n", err)
		return exitConfig
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "taskread: %v\n", err)
		return exitConfig
	}
	args.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "taskread: invalid configuration: %v\n", err)
		return exitConfig
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskread: logging disabled: %v\n", err)
	}

	// A missing TERM or terminfo entry is reported at startup rather than
	// when the first signal arrives.
	if err := rawline.NewValidator().Validate(); err != nil {
		logger.Error("terminal environment unusable", "err", err)
		fmt.Fprintf(os.Stderr, "taskread: %v\n", err)
		return rawline.ExitCode(err)
	}

	trigger := triggers[cfg.SignalName()]
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, trigger, unix.SIGINT, unix.SIGTERM)
	defer signal.Stop(sigs)

	l := &listener{
		sess:    rawline.NewController(rawline.WithLogger(logger)),
		trigger: trigger,
		prompt:  cfg.Prompt,
		once:    cfg.Once,
		out:     os.Stderr,
		logger:  logger,
	}
	logger.Info("waiting for trigger", "pid", os.Getpid(), "signal", cfg.SignalName())
	return l.serve(sigs)
}
