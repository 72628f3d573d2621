// Package log writes leveled diagnostics to the log file. The terminal is the
// playfield, so nothing here ever writes to it.
package log

import (
	"io"
	"log"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "NONE"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelNone {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// LevelFromString falls back to INFO for anything it does not know
func LevelFromString(s string) Level {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i)
		}
	}
	return LevelInfo
}

// Logger is cheap to copy through With; copies share the writer and level.
type Logger struct {
	out    *log.Logger
	level  Level
	prefix string
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{
		out:   log.New(out, "", log.Ltime|log.Lmicroseconds),
		level: level,
	}
}

// Discard is used wherever no log file was requested.
func Discard() *Logger {
	return New(io.Discard, LevelNone)
}

// With returns a logger that puts name in front of every line, after any
// name the receiver already has.
func (l *Logger) With(name string) *Logger {
	return &Logger{out: l.out, level: l.level, prefix: l.prefix + name + ": "}
}

func (l *Logger) logf(at Level, format string, v ...interface{}) {
	if at < l.level {
		return
	}
	l.out.Printf(at.String()+": "+l.prefix+format, v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }
