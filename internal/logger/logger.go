// Package logger provides structured logging using zap.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It is a no-op logger until Init is
// called so that library packages can log unconditionally.
var Log = zap.NewNop()

// Sugar is the sugared logger for convenient logging.
var Sugar = Log.Sugar()

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options configures Setup.
type Options struct {
	Level   string
	File    FileConfig // Empty Path disables file output
	Console bool       // Human-readable output on stderr

	// Components overrides Level per component name ("urdf", "stream", ...).
	Components map[string]string
}

// Init initializes the logger with the given level and optional file output.
func Init(level string, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Setup(opts)
}

// InitWithFileConfig initializes the logger with custom file configuration.
// Set consoleOutput to false to disable console logging (useful for tests).
func InitWithFileConfig(level string, fileCfg FileConfig, consoleOutput bool) error {
	return Setup(Options{Level: level, File: fileCfg, Console: consoleOutput})
}

// Setup replaces the global logger according to opts.
func Setup(opts Options) error {
	base := parseLevel(opts.Level)
	levels := make(map[string]zapcore.Level, len(opts.Components))
	lowest := base
	for name, lvl := range opts.Components {
		l := parseLevel(lvl)
		levels[name] = l
		if l < lowest {
			lowest = l
		}
	}

	var cores []zapcore.Core
	if opts.Console {
		enc := zapcore.NewConsoleEncoder(encoderConfig(true))
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), lowest))
	}
	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true, // Use local time in rotated filename
		}
		enc := zapcore.NewConsoleEncoder(encoderConfig(false))
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lowest))
	}

	if len(cores) == 0 {
		SetLogger(zap.NewNop())
		return nil
	}

	core := zapcore.NewTee(cores...)
	if len(levels) > 0 {
		core = &componentCore{Core: core, base: base, levels: levels}
	}
	SetLogger(zap.New(core, zap.AddCaller()))
	return nil
}

// encoderConfig returns the shared field layout; the console variant uses
// short colored output, files get ISO timestamps.
func encoderConfig(console bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "component",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	if console {
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

// componentCore filters entries by the level configured for their
// top-level component name.
type componentCore struct {
	zapcore.Core
	base   zapcore.Level
	levels map[string]zapcore.Level
}

func (c *componentCore) With(fields []zapcore.Field) zapcore.Core {
	return &componentCore{Core: c.Core.With(fields), base: c.base, levels: c.levels}
}

func (c *componentCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < c.levelFor(ent.LoggerName) {
		return ce
	}
	return c.Core.Check(ent, ce)
}

func (c *componentCore) levelFor(name string) zapcore.Level {
	name, _, _ = strings.Cut(name, ".")
	if l, ok := c.levels[name]; ok {
		return l
	}
	return c.base
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// L returns the current logger scoped to a component name.
func L(component string) *zap.Logger {
	return Log.Named(component)
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Log = l
	Sugar = l.Sugar()
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}
