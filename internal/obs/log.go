// Package obs provides structured logging shared by every CLI tool.
package obs

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	current *zap.SugaredLogger
)

// New builds a console-encoded logger at the given level ("debug", "info",
// "warn", "error"). An unknown level falls back to "info".
func New(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stderr), lvl)
	return zap.New(core).Sugar()
}

// Set installs l as the process-wide logger returned by L.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// L returns the process-wide logger, defaulting to an info-level logger if
// none was installed yet.
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = New("info")
	}
	return current
}

// Component returns a child logger tagged with a "component" field, the way
// every subsystem in this repo identifies its log lines.
func Component(name string) *zap.SugaredLogger {
	return L().With("component", name)
}
