// Package logging defines the small structured-logging interface every
// long-lived component in this module takes as a constructor dependency,
// the same shape the teacher codebase injects (a Logger with leveled,
// printf-style methods) rather than a global logger. See DESIGN.md for why
// this is a thin zap-backed adapter instead of a direct dependency on
// go-datatrails-common/logger.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the leveled, printf-style logging surface every component
// accepts. Nil is a valid Logger (see NewNop).
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZap wraps a *zap.SugaredLogger as a Logger.
func NewZap(s *zap.SugaredLogger) Logger {
	return &zapLogger{s: s}
}

func (z *zapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }
func (z *zapLogger) Infof(format string, args ...any)  { z.s.Infof(format, args...) }
func (z *zapLogger) Warnf(format string, args ...any)  { z.s.Warnf(format, args...) }
func (z *zapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NewNop returns a Logger that discards everything, for tests and for
// callers that have not wired a real sink yet.
func NewNop() Logger { return nopLogger{} }

// NewProduction builds a Logger backed by zap's production configuration
// (JSON encoding, info level and above, epoch-seconds timestamps).
func NewProduction() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZap(l.Sugar()), nil
}
