package clipio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// LogLevel orders message severities.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

type levelStyle struct {
	tag    string
	symbol string
	color  color.Attribute
}

var levelStyles = [...]levelStyle{
	LevelDebug:   {"DEBUG", "●", color.FgMagenta},
	LevelInfo:    {"INFO", "◆", color.FgBlue},
	LevelSuccess: {"SUCCESS", "✓", color.FgGreen},
	LevelWarning: {"WARN", "▲", color.FgYellow},
	LevelError:   {"ERROR", "✗", color.FgRed},
}

func (l LogLevel) valid() bool { return l >= LevelDebug && l <= LevelError }

func (l LogLevel) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return levelStyles[l].tag
}

// LogFormat selects the prefix written before each message.
type LogFormat int

const (
	LogFormatSymbols LogFormat = iota // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [DEBUG] [INFO] [SUCCESS] [WARN] [ERROR]
	LogFormatPlain
)

// Logger writes leveled, optionally colored and timestamped lines through an
// IOManager. Warnings and errors go to the error writer unless
// ErrorsToStderr(false) is set.
type Logger struct {
	io           *IOManager
	format       LogFormat
	overrides    map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	now          func() time.Time
}

// NewLogger returns a logger on m that writes Info and above.
func NewLogger(m *IOManager) *Logger {
	return &Logger{
		io:           m,
		format:       LogFormatSymbols,
		minLevel:     LevelInfo,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		now:          time.Now,
	}
}

// WithFormat switches the prefix style and drops custom prefixes.
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	l.overrides = nil
	return l
}

// WithLevel drops messages below level.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// SetPrefix replaces the prefix of one level until the next WithFormat.
func (l *Logger) SetPrefix(level LogLevel, prefix string) *Logger {
	if l.overrides == nil {
		l.overrides = make(map[LogLevel]string)
	}
	l.overrides[level] = prefix
	return l
}

func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time layout used by WithTimestamp.
func (l *Logger) WithTimeFormat(layout string) *Logger {
	l.timeFormat = layout
	return l
}

func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// Enabled reports whether messages at level are written. A nil logger is
// disabled.
func (l *Logger) Enabled(level LogLevel) bool {
	return l != nil && level >= l.minLevel
}

// Log formats and writes one line at level.
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	fmt.Fprintln(l.writer(level), l.line(level, fmt.Sprintf(format, args...)))
}

func (l *Logger) prefix(level LogLevel) string {
	if p, ok := l.overrides[level]; ok {
		return p
	}
	if !level.valid() {
		return ""
	}
	switch l.format {
	case LogFormatSymbols:
		return levelStyles[level].symbol
	case LogFormatTagged:
		return "[" + levelStyles[level].tag + "]"
	default:
		return ""
	}
}

func (l *Logger) line(level LogLevel, msg string) string {
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if p := l.prefix(level); p != "" {
		parts = append(parts, p)
	}
	if l.withTime {
		parts = append(parts, l.now().Format(l.timeFormat))
	}
	parts = append(parts, msg)
	s := strings.Join(parts, " ")

	if !level.valid() {
		return s
	}
	return l.io.Paint(s, levelStyles[level].color)
}

func (l *Logger) writer(level LogLevel) io.Writer {
	if l.errorsStderr && level >= LevelWarning {
		return l.io.Err()
	}
	return l.io.Out()
}

func (l *Logger) Debug(format string, args ...any)   { l.Log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)    { l.Log(LevelInfo, format, args...) }
func (l *Logger) Success(format string, args ...any) { l.Log(LevelSuccess, format, args...) }
func (l *Logger) Warning(format string, args ...any) { l.Log(LevelWarning, format, args...) }
func (l *Logger) Error(format string, args ...any)   { l.Log(LevelError, format, args...) }
