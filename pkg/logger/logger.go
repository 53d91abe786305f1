// Package logger is the leveled terminal logger used by the convoy-sim
// CLI. The tracker server logs through pkg/logging (zap) instead; this
// package exists for human-readable mission output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var (
	timeColor   = color.New(color.FgHiBlack)
	debugColor  = color.New(color.FgHiBlack)
	infoColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
	fatalColor  = color.New(color.FgRed, color.Bold)
	prefixColor = color.New(color.FgCyan)
)

type logger struct {
	mu       sync.Mutex
	level    Level
	writer   io.Writer
	prefix   string
	showTime bool
}

var defaultLogger = &logger{
	level:    InfoLevel,
	writer:   os.Stdout,
	showTime: true,
}

// SetLevel sets the global log level
func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defaultLogger.level = level
	defaultLogger.mu.Unlock()
}

// SetNoColor disables color output
func SetNoColor(noColor bool) {
	color.NoColor = noColor
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defaultLogger.writer = w
	defaultLogger.mu.Unlock()
}

// WithPrefix returns a logger that tags every line with a bracketed
// prefix, e.g. [ALPHA-01].
func WithPrefix(prefix string) *logger {
	return &logger{
		level:    defaultLogger.level,
		writer:   defaultLogger.writer,
		prefix:   prefix,
		showTime: defaultLogger.showTime,
	}
}

// Package-level helpers for the default logger

func Debug(args ...interface{})                 { defaultLogger.log(DebugLevel, args...) }
func Debugf(format string, args ...interface{}) { defaultLogger.logf(DebugLevel, format, args...) }
func Info(args ...interface{})                  { defaultLogger.log(InfoLevel, args...) }
func Infof(format string, args ...interface{})  { defaultLogger.logf(InfoLevel, format, args...) }
func Warn(args ...interface{})                  { defaultLogger.log(WarnLevel, args...) }
func Warnf(format string, args ...interface{})  { defaultLogger.logf(WarnLevel, format, args...) }
func Error(args ...interface{})                 { defaultLogger.log(ErrorLevel, args...) }
func Errorf(format string, args ...interface{}) { defaultLogger.logf(ErrorLevel, format, args...) }
func Fatal(args ...interface{})                 { defaultLogger.log(FatalLevel, args...) }
func Fatalf(format string, args ...interface{}) { defaultLogger.logf(FatalLevel, format, args...) }

func (l *logger) Debug(args ...interface{})                 { l.log(DebugLevel, args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.logf(DebugLevel, format, args...) }
func (l *logger) Info(args ...interface{})                  { l.log(InfoLevel, args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.logf(InfoLevel, format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.log(WarnLevel, args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.logf(WarnLevel, format, args...) }
func (l *logger) Error(args ...interface{})                 { l.log(ErrorLevel, args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.logf(ErrorLevel, format, args...) }

func (l *logger) log(level Level, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()

	var parts []string
	if l.showTime {
		parts = append(parts, timeColor.Sprint(time.Now().Format("15:04:05")))
	}

	parts = append(parts, levelTag(level))

	if l.prefix != "" {
		parts = append(parts, prefixColor.Sprint("["+l.prefix+"]"))
	}

	parts = append(parts, fmt.Sprint(args...))
	_, _ = fmt.Fprintln(l.writer, strings.Join(parts, " "))

	l.mu.Unlock()

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	l.log(level, fmt.Sprintf(format, args...))
}

func levelTag(level Level) string {
	switch level {
	case DebugLevel:
		return debugColor.Sprint("DEBUG")
	case InfoLevel:
		return infoColor.Sprint("INFO ")
	case WarnLevel:
		return warnColor.Sprint("WARN ")
	case ErrorLevel:
		return errorColor.Sprint("ERROR")
	case FatalLevel:
		return fatalColor.Sprint("FATAL")
	default:
		return "?????"
	}
}

// ParseLevel parses a string log level
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
