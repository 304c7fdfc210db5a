// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// Adept CMS writes lifecycle and error events to one JSON log per day under
// `<root>/logs/YYYY-MM-DD.log`.  When running in an interactive TTY we tee
// the same events to stdout.  Rotation, compression, and retention are
// handled by Lumberjack; no external log-rotate job is required.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Root: cfg.Paths.Root, Level: cfg.Log.Level, Tee: true})
//	if err != nil { … }
//	log.Infow("content api online", "addr", addr)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Errors are written to the same sink via `ErrorOutput`.
// • Oxford commas, two spaces after periods.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	Root  string // logs/ is created below Root
	Level string // debug, info, warn, or error; empty means info
	Tee   bool   // also write to stdout
}

// New returns a *zap.SugaredLogger that writes JSON to logs/YYYY-MM-DD.log.
// The logger is installed as the process-wide default via
// zap.ReplaceGlobals.
func New(opts Options) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(opts.Root, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileName := time.Now().Format("2006-01-02") + ".log"
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    50, // MB
		MaxBackups: 7,  // keep last seven files
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), lvl),
	}
	if opts.Tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			lvl,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	// Make this the global logger so zap.L() works everywhere after startup.
	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "tee", opts.Tee, "level", lvl.String())
	return z, nil
}

// ParseLevel maps a config string to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zap.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("logger: level %q: %w", s, err)
	}
	return lvl, nil
}
