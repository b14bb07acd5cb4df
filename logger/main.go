package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	dumpDir     string
)

func Init(logLevel string) {
	simpleTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     simpleTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	SetLevel(logLevel)
	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stdout),
		atomicLevel,
	)
	logger := zap.New(
		core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	zap.ReplaceGlobals(logger)
}

// SetLevel changes the level of the global logger,
// it is safe to call after Init.
func SetLevel(logLevel string) {
	atomicLevel.SetLevel(getZapLevel(logLevel))
}

func getZapLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetDumpDir enables WriteFile. An empty dir disables it.
func SetDumpDir(dir string) {
	dumpDir = dir
}

// WriteFile dumps an upstream response body for debugging.
// It is a no-op unless a dump directory was set.
func WriteFile(name string, body []byte) {
	if dumpDir == "" {
		return
	}
	if err := os.MkdirAll(dumpDir, 0o755); err != nil {
		zap.S().Warnf("failed to create dump dir: %v", err)
		return
	}
	fileName := fmt.Sprintf("%s_%d.txt", name, time.Now().UnixNano())
	path := filepath.Join(dumpDir, fileName)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		zap.S().Warnf("failed to write dump file: %v", err)
		return
	}
	zap.S().Debugf("dumped %s to %s", name, path)
}

func Sync() error {
	return zap.L().Sync()
}
