// Package log provides the narrow logging interface used throughout the
// core, backed by logrus. Components never depend on logrus directly; they
// take a Logger so tests can swap in a null implementation.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging surface a component needs. It deliberately avoids
// exposing the full logrus API so that swapping backends never ripples
// through the core.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a Logger backed by logrus, writing leveled, field-tagged
// output to stderr. component is attached to every line as a field.
func New(component string) Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	return &logrusLogger{entry: l.WithField("component", component)}
}

// SetDebug raises or lowers the logging level for every Logger created
// from the shared logrus instance underlying l.
func SetDebug(l Logger, debug bool) {
	ll, ok := l.(*logrusLogger)
	if !ok {
		return
	}
	if debug {
		ll.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		ll.entry.Logger.SetLevel(logrus.InfoLevel)
	}
}

func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

type nullLogger struct{}

// NewNull returns a Logger that discards everything, for tests.
func NewNull() Logger { return nullLogger{} }

func (nullLogger) Infof(string, ...interface{})   {}
func (nullLogger) Errorf(string, ...interface{})  {}
func (nullLogger) Debugf(string, ...interface{})  {}
func (n nullLogger) WithField(string, interface{}) Logger { return n }
