package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskmaster/rawline/internal/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "taskread.log"
const (
	maxLogSizeMB  = 5
	maxLogBackups = 3
	maxLogAgeDays = 14
)

// Init configures slog to write structured logs to a rotating file. The
// terminal is never used: it belongs to the read session. A log_file of
// "off" discards everything.
func Init(cfg config.Config) (*slog.Logger, error) {
	handlerOptions := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	logPath := strings.TrimSpace(cfg.LogFile)
	if strings.EqualFold(logPath, "off") {
		return setDefault(slog.New(newHandler(cfg.LogFormat, io.Discard, handlerOptions))), nil
	}
	if logPath == "" {
		logPath = defaultLogPath()
	}
	if err := checkLogTarget(logPath); err != nil {
		return setDefault(slog.New(newHandler(cfg.LogFormat, io.Discard, handlerOptions))), err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return setDefault(slog.New(newHandler(cfg.LogFormat, io.Discard, handlerOptions))), err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	return setDefault(slog.New(newHandler(cfg.LogFormat, writer, handlerOptions))), nil
}

// checkLogTarget rejects a log path that is not a regular file. Rotation
// renames the file, and a device, above all a terminal, would put log lines
// in the middle of the line being edited.
func checkLogTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	mode := info.Mode()
	switch {
	case mode.IsRegular():
		return nil
	case sameFile(info, os.Stdin):
		return fmt.Errorf("log file %s is the terminal owned by read sessions", path)
	case mode&os.ModeCharDevice != 0:
		return fmt.Errorf("log file %s is a character device, possibly a terminal", path)
	}
	return fmt.Errorf("log file %s is not a regular file (%s)", path, mode.Type())
}

func sameFile(info os.FileInfo, f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && os.SameFile(info, fi)
}

func setDefault(l *slog.Logger) *slog.Logger {
	slog.SetDefault(l)
	return l
}

func defaultLogPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".taskread", "logs", defaultLogFile)
	}
	return filepath.Join(homeDir, ".taskread", "logs", defaultLogFile)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}
