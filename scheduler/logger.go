package scheduler

import (
	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// gocronLogger forwards gocron's internal logging to charmbracelet/log so
// scheduler output shares the application's log format.
type gocronLogger struct {
	log *log.Logger
}

var _ gocron.Logger = (*gocronLogger)(nil)

func newLogger() *gocronLogger {
	return &gocronLogger{
		log: log.Default().WithPrefix("scheduler"),
	}
}

func (l *gocronLogger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *gocronLogger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

func (l *gocronLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *gocronLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}
