package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/teamwork/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the CLI logger. Logs go to stderr so stdout carries only
// the final answer. The returned func flushes buffered output.
func newLogger(level, format, runID string) (logging.Logger, func(), error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	switch format {
	case "text", "json":
		cfg := logging.DefaultLoggerConfig()
		cfg.Level = lvl
		cfg.Format = format
		cfg.Output = os.Stderr
		cfg.AddSource = false
		cfg.Component = "cli"
		cfg.RunID = runID

		return logging.NewLogger(cfg), func() {}, nil
	case "zap":
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapLevel(lvl))
		zcfg.OutputPaths = []string{"stderr"}

		zl, err := zcfg.Build(zap.Fields(zap.String("component", "cli"), zap.String("run_id", runID)))
		if err != nil {
			return nil, nil, fmt.Errorf("build zap logger: %w", err)
		}

		return logging.NewZapAdapter(zl), func() { _ = zl.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}
}

func zapLevel(l logging.LogLevel) zapcore.Level {
	switch l {
	case logging.LogLevelDebug:
		return zapcore.DebugLevel
	case logging.LogLevelWarn:
		return zapcore.WarnLevel
	case logging.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
