// Package logger is the leveled, component-tagged logger shared by every
// erasviz binary.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if l < DEBUG || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a level name to a LogLevel. Unknown names fall back to INFO.
func ParseLevel(name string) (LogLevel, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), true
		}
	}
	return INFO, false
}

var levelStyles = map[LogLevel]lipgloss.Style{
	DEBUG: lipgloss.NewStyle().Foreground(lipgloss.Color("#7f7f7f")),
	INFO:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4a7ccf")),
	WARN:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d9a21b")),
	ERROR: lipgloss.NewStyle().Foreground(lipgloss.Color("#b8396b")).Bold(true),
	FATAL: lipgloss.NewStyle().Foreground(lipgloss.Color("#db3e1d")).Bold(true),
}

var componentStyle = lipgloss.NewStyle().Faint(true)

// sink is shared by a logger and every child made with Named.
type sink struct {
	mu         sync.Mutex
	out        io.Writer
	level      LogLevel
	colorize   bool
	showTime   bool
	timeFormat string
}

type Logger struct {
	sink      *sink
	component string
}

type Config struct {
	Level      LogLevel
	Colorize   bool
	ShowTime   bool
	TimeFormat string
	Output     io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:      INFO,
		Colorize:   true,
		ShowTime:   true,
		TimeFormat: "2006-01-02 15:04:05",
		Output:     os.Stderr,
	}
}

func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.DateTime
	}
	return &Logger{sink: &sink{
		out:        cfg.Output,
		level:      cfg.Level,
		colorize:   cfg.Colorize,
		showTime:   cfg.ShowTime,
		timeFormat: cfg.TimeFormat,
	}}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Config{Level: FATAL + 1, Output: io.Discard})
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the process-wide logger. LOG_LEVEL and NO_COLOR are read
// once, on first use.
func GetLogger() *Logger {
	once.Do(func() {
		cfg := DefaultConfig()
		if lvl, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
			cfg.Level = lvl
		}
		if os.Getenv("NO_COLOR") != "" {
			cfg.Colorize = false
		}
		defaultLogger = New(cfg)
	})
	return defaultLogger
}

// Named returns a child tagged with component, dotted onto the parent's.
func (l *Logger) Named(component string) *Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return &Logger{sink: l.sink, component: component}
}

func (l *Logger) Level() LogLevel {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.level
}

func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out = w
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.level {
		return
	}

	var b strings.Builder
	if s.showTime {
		b.WriteString(time.Now().Format(s.timeFormat))
		b.WriteByte(' ')
	}
	tag := "[" + level.String() + "]"
	comp := l.component
	if s.colorize {
		tag = levelStyles[level].Render(tag)
		if comp != "" {
			comp = componentStyle.Render(comp)
		}
	}
	b.WriteString(tag)
	b.WriteByte(' ')
	if comp != "" {
		b.WriteString(comp)
		b.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&b, format, args...)
	} else {
		b.WriteString(format)
	}
	b.WriteByte('\n')
	io.WriteString(s.out, b.String())

	if level == FATAL {
		os.Exit(1)
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.log(DEBUG, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(INFO, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(WARN, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(ERROR, format, args...) }

// Fatalf logs and exits with status 1.
func (l *Logger) Fatalf(format string, args ...any) { l.log(FATAL, format, args...) }

// SetLevel sets the level of the process-wide logger and all its children.
func SetLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}
