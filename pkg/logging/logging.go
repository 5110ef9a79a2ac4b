// Package logging holds the process-wide zap logger.
package logging

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It discards everything until Initialize
	// is called.
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize selected JSON output.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. Console output is meant for people
// and goes to stderr so that command output on stdout stays parseable.
func Initialize(jsonOutput bool, level string) error {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return errors.WithHint(errors.Wrapf(err, "log level %q", level), "use debug, info, warn or error")
		}
		lvl = parsed
	}

	var zl *zap.Logger
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(lvl)
		config.OutputPaths = []string{"stderr"}
		built, err := config.Build()
		if err != nil {
			return errors.Wrap(err, "build json logger")
		}
		zl = built
	} else {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc.CallerKey = ""
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.AddSync(os.Stderr),
			lvl,
		))
	}

	JSONOutput = jsonOutput
	Logger = zl.Sugar()
	return nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = Logger.Sync()
}
