package store

import (
	"time"

	api "github.com/djjrip/ggloop-bots/lib-ggbot"
)

// Reporter receives records. *Store is a Reporter.
type Reporter interface {
	Report(r api.Record)
}

// Logger makes records that bound to a scope and a run.
type Logger struct {
	r     Reporter
	scope string
	run   string
}

// NewLogger makes new Logger.
func NewLogger(r Reporter, scope, run string) Logger {
	return Logger{
		r:     r,
		scope: scope,
		run:   run,
	}
}

// WithScope makes new Logger with new scope.
func (l Logger) WithScope(scope string) Logger {
	return Logger{
		r:     l.r,
		scope: scope,
		run:   l.run,
	}
}

// Run returns the run ID of this Logger.
func (l Logger) Run() string {
	return l.run
}

func (l Logger) print(level api.Level, message string, extra map[string]interface{}) {
	if l.r == nil {
		return
	}
	l.r.Report(api.Record{
		Time:    time.Now(),
		Level:   level,
		Scope:   l.scope,
		Run:     l.run,
		Message: message,
		Extra:   extra,
	})
}

func (l Logger) Debug(message string, extra map[string]interface{}) {
	l.print(api.LevelDebug, message, extra)
}

func (l Logger) Info(message string, extra map[string]interface{}) {
	l.print(api.LevelInfo, message, extra)
}

func (l Logger) Warn(message string, extra map[string]interface{}) {
	l.print(api.LevelWarn, message, extra)
}

func (l Logger) Error(message string, extra map[string]interface{}) {
	l.print(api.LevelError, message, extra)
}

// Critical prints a record that needs a human.
func (l Logger) Critical(message string, extra map[string]interface{}) {
	l.print(api.LevelCritical, message, extra)
}

// WarnError is a shorthand to print an error of a collaborator that was replaced by a default value.
func (l Logger) WarnError(message string, err error) {
	l.Warn(message, map[string]interface{}{"error": err.Error()})
}
