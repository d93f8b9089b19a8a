// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// Options controls logger setup.
type Options struct {
	// Level is a logrus level name such as "debug" or "info".
	Level string
	// File, when set, receives every entry down to debug as JSON.
	File string
	// Verbose forces debug level; Quiet limits the console to errors.
	Verbose bool
	Quiet   bool
	// Output overrides the console writer. Defaults to stderr.
	Output io.Writer
}

var (
	mu     sync.Mutex
	logger = logrus.New()
)

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Setup replaces the shared logger with one configured from opts.
func Setup(opts Options) (*logrus.Logger, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	logger = l
	mu.Unlock()
	return l, nil
}

// New builds a logger from opts without touching the shared one.
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	switch {
	case opts.Verbose:
		level = logrus.DebugLevel
	case opts.Quiet:
		level = logrus.ErrorLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	console := &logrus.TextFormatter{
		ForceColors:      isTerminal(out),
		DisableColors:    !isTerminal(out),
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(out)
	l.SetFormatter(console)

	if opts.File != "" {
		// Both sinks are hooks so the file keeps debug entries while the console stays
		// at the requested level.
		l.SetLevel(logrus.DebugLevel)
		l.SetOutput(io.Discard)
		l.AddHook(lfshook.NewHook(writerMap(out, level), console))
		l.AddHook(lfshook.NewHook(pathMap(opts.File, logrus.DebugLevel), &logrus.JSONFormatter{}))
	}

	return l, nil
}

func writerMap(w io.Writer, max logrus.Level) lfshook.WriterMap {
	m := lfshook.WriterMap{}
	for _, level := range logrus.AllLevels {
		if level <= max {
			m[level] = w
		}
	}
	return m
}

func pathMap(path string, max logrus.Level) lfshook.PathMap {
	m := lfshook.PathMap{}
	for _, level := range logrus.AllLevels {
		if level <= max {
			m[level] = path
		}
	}
	return m
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
