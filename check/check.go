// Package check turns device runtime failures into process termination.
// Every runtime call is wrapped at its call site:
//
//	check.Must(rn.CopyToDevice("x", x))
//
// A non-nil error is logged with its status code and the caller's file and
// line, then the process exits with status 1. Nothing is retried or released.
package check

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/notargets/gosaxpy/runner"
	"github.com/sirupsen/logrus"
)

// Logger carries both the fatal reports and the informational stage lines
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel parses and applies a logrus level name
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}

// Must terminates the process if err is non-nil
func Must(err error) {
	if err == nil {
		return
	}
	fail(err, 2)
}

// MustValue is Must for calls that also return a value
func MustValue[T any](v T, err error) T {
	if err != nil {
		fail(err, 2)
	}
	return v
}

func fail(err error, skip int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file, line = "???", 0
	}
	file = filepath.Base(file)
	status := runner.StatusOf(err)

	Logger.WithFields(logrus.Fields{
		"status": int(status),
		"file":   file,
		"line":   line,
	}).Fatalf("error: '%v'(%d) at %s:%d", err, int(status), file, line)
}
