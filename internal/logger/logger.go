// Package logger hands out zerolog loggers scoped by package name, with
// per-package levels taken from configuration.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umezakip/portfolio/internal/config"
)

// Manager manages package loggers sharing one set of writers
type Manager struct {
	config         *config.LogConfig
	root           zerolog.Logger
	packageLoggers map[string]zerolog.Logger
	mu             sync.RWMutex
	closers        []io.Closer
}

// NewManager creates a logger manager writing to stderr and, when configured,
// to a rotating file.
func NewManager(cfg *config.LogConfig) (*Manager, error) {
	m := &Manager{
		config:         cfg,
		packageLoggers: make(map[string]zerolog.Logger),
	}

	level := parseLevel(cfg.Level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	writers := []io.Writer{consoleWriter(cfg.Format, os.Stderr)}

	if cfg.File.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
		m.closers = append(m.closers, lj)
		writers = append(writers, lj)
	}

	var w io.Writer = writers[0]
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	m.root = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return m, nil
}

func consoleWriter(format string, out io.Writer) io.Writer {
	if format != "console" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05.000",
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		},
	}
}

// GetLogger returns a logger for a specific package
func (m *Manager) GetLogger(pkg string) zerolog.Logger {
	m.mu.RLock()
	if l, ok := m.packageLoggers[pkg]; ok {
		m.mu.RUnlock()
		return l
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.packageLoggers[pkg]; ok {
		return l
	}

	level := parseLevel(m.config.Level)
	if pkgLevel, ok := m.config.Levels[pkg]; ok {
		level = parseLevel(pkgLevel)
	}

	l := m.root.With().Str("pkg", pkg).Logger().Level(level)
	m.packageLoggers[pkg] = l
	return l
}

// Close closes file writers
func (m *Manager) Close() error {
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

var (
	globalMu      sync.RWMutex
	globalManager *Manager
)

// Initialize installs the process-wide manager. Calling it again replaces the
// previous manager.
func Initialize(cfg *config.LogConfig) error {
	m, err := NewManager(cfg)
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalManager = m
	globalMu.Unlock()
	return nil
}

// GetLogger returns a logger for the specified package. Before Initialize it
// returns a logger that discards everything.
func GetLogger(pkg string) zerolog.Logger {
	globalMu.RLock()
	m := globalManager
	globalMu.RUnlock()
	if m == nil {
		return zerolog.Nop()
	}
	return m.GetLogger(pkg)
}

// CloseGlobal closes the process-wide manager.
func CloseGlobal() error {
	globalMu.RLock()
	m := globalManager
	globalMu.RUnlock()
	if m == nil {
		return nil
	}
	return m.Close()
}
