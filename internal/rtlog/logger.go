// Package rtlog provides the small leveled-logging interface used
// throughout the runtime and the launcher: a handful of printf-style
// methods plus a toggleable debug level, so call sites never depend on
// which concrete logger backs them.
package rtlog

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is implemented by every backend this package ships, and by
// anything a caller wants to plug in instead.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

const calldepth = 3

// StdLogger is the default Logger, used by every worker process. It
// wraps the standard library's log package: level-tagged output, a
// toggleable debug gate.
type StdLogger struct {
	*log.Logger
	debug bool
}

// NewStdLogger builds a StdLogger writing to stderr, tagged with name
// (typically "mimpi[<rank>]").
func NewStdLogger(name string) *StdLogger {
	return &StdLogger{
		Logger: log.New(os.Stderr, name+" ", log.LstdFlags|log.Lmicroseconds),
	}
}

// ToggleDebug enables or disables Debugf output and returns the new state.
func (l *StdLogger) ToggleDebug(enabled bool) bool {
	l.debug = enabled
	return l.debug
}

func (l *StdLogger) Infof(format string, args ...interface{}) {
	_ = l.Output(calldepth, tag("INFO", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Warnf(format string, args ...interface{}) {
	_ = l.Output(calldepth, tag("WARN", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Errorf(format string, args ...interface{}) {
	_ = l.Output(calldepth, tag("ERROR", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Debugf(format string, args ...interface{}) {
	if l.debug {
		_ = l.Output(calldepth, tag("DEBUG", fmt.Sprintf(format, args...)))
	}
}

func (l *StdLogger) Fatalf(format string, args ...interface{}) {
	_ = l.Output(calldepth, tag("FATAL", fmt.Sprintf(format, args...)))
	os.Exit(1)
}

func tag(level, message string) string {
	return fmt.Sprintf("[%s] %s", level, message)
}

// LogrusLogger adapts a *logrus.Entry to Logger. mimpirun uses this
// for its own diagnostic output (child spawn/exit events), kept
// structured and distinct from a worker's own StdLogger instance.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger builds a LogrusLogger tagged with the given fields,
// e.g. {"run_id": id}.
func NewLogrusLogger(fields logrus.Fields) *LogrusLogger {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &LogrusLogger{entry: base.WithFields(fields)}
}

func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }
