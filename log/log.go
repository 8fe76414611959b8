// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log provides a small leveled logging facade used throughout
// the pe package. It exists so parsers never call fmt/log directly and
// callers can plug in whatever sink they already use.
package log

import (
	"fmt"
	"io"
	"log"
)

// Level identifies the severity of a log record.
type Level uint8

// Log levels, from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes a single leveled, formatted record. Implementations
// must be safe for concurrent use.
type Logger interface {
	Log(level Level, msg string) error
}

// stdLogger adapts the standard library's *log.Logger to Logger.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes "LEVEL msg" lines to w via
// the standard library logger.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", log.LstdFlags)}
}

func (s *stdLogger) Log(level Level, msg string) error {
	s.l.Printf("%s %s", level, msg)
	return nil
}

// nopLogger discards every record. It is the default-safe, always-
// acceptable sink the caller never has to configure.
type nopLogger struct{}

// NewNopLogger returns a Logger that discards every record.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Log(Level, string) error { return nil }

// FilterOption configures a filtered Logger built by NewFilter.
type FilterOption func(*filter)

// FilterLevel returns a FilterOption that drops records below level.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.level = level }
}

type filter struct {
	next  Logger
	level Level
}

// NewFilter wraps next so only records at or above the configured
// level reach it.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, msg string) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, msg)
}

// Helper wraps a Logger with printf-style convenience methods, the way
// every parser in this module actually calls into it.
type Helper struct {
	logger Logger
}

// NewHelper returns a Helper bound to logger. A nil logger is treated
// as NewNopLogger().
func NewHelper(logger Logger) *Helper {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Helper{logger: logger}
}

// Debugf logs a formatted message at LevelDebug.
func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at LevelInfo.
func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at LevelWarn.
func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

// Warn logs msg at LevelWarn.
func (h *Helper) Warn(msg string) {
	h.logger.Log(LevelWarn, msg)
}

// Errorf logs a formatted message at LevelError.
func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}
