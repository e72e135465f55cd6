package logger

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorRed    = "\033[31m"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var globalLevel = LogLevelInfo

// SetGlobalLevel sets the minimum level for loggers created afterwards.
// Unknown names fall back to info.
func SetGlobalLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		globalLevel = LogLevelDebug
	case "info":
		globalLevel = LogLevelInfo
	case "warn", "warning":
		globalLevel = LogLevelWarn
	case "error":
		globalLevel = LogLevelError
	default:
		globalLevel = LogLevelInfo
	}
}

type Log struct {
	level LogLevel
	err   error
}

func New() *Log {
	return &Log{level: globalLevel}
}

func (l *Log) WithError(err error) *Log {
	return &Log{level: l.level, err: err}
}

func (l *Log) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Log) write(color, msg string) {
	if l.err != nil {
		fmt.Fprintf(os.Stdout, "%s[%s]%s %s: %v\n", color, l.timestamp(), ColorReset, msg, l.err)
		return
	}
	fmt.Fprintf(os.Stdout, "%s[%s]%s %s\n", color, l.timestamp(), ColorReset, msg)
}

func (l *Log) Debug(msg string) {
	if l.level > LogLevelDebug {
		return
	}
	l.write(ColorCyan, msg)
}

func (l *Log) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Log) Info(msg string) {
	if l.level > LogLevelInfo {
		return
	}
	l.write(ColorBlue, msg)
}

func (l *Log) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Log) Warn(msg string) {
	if l.level > LogLevelWarn {
		return
	}
	l.write(ColorYellow, msg)
}

func (l *Log) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Log) Error(msg string) {
	l.write(ColorRed, msg)
}

func (l *Log) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}
