// Package logger builds the process-wide structured logger: a zap core
// writing JSON to stderr, wrapped into a logr.Logger via zapr. Everything
// user-facing goes to stdout or the terminal, so logs on stderr never
// interleave with editor output or the final query line.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/jqx/pkg/settings"
)

// Field keys shared across the codebase so log lines stay greppable.
const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	CommitKey      = "commit"
	VersionKey     = "version"
	BuildTimeKey   = "build_time"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
)

type ctxKey struct{}

var (
	setupOnce sync.Once

	// zapRoot is kept around for Sync; all logging goes through logr.
	zapRoot *zap.Logger
	root    *logr.Logger

	noop = logr.Discard()
)

// Get builds the global logger on first call and returns it afterwards; the
// level argument only matters on that first call. Levels follow zapcore:
// 0 is info, -1 enables debug output.
func Get(logLevel int8) *logr.Logger {
	setupOnce.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			zap.NewAtomicLevelAt(zapcore.Level(logLevel)),
		)

		// Every line carries the build identity, so logs from different
		// installs can be told apart.
		buildInfo, _ := debug.ReadBuildInfo()
		core = core.With([]zapcore.Field{
			zap.String(CommitKey, settings.VersionInformation.Commit),
			zap.String(VersionKey, settings.VersionInformation.BuildVersion),
			zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
			zap.String(GoVersionKey, buildInfo.GoVersion),
		})

		zapRoot = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
			zap.WithFatalHook(zapcore.WriteThenPanic),
		)

		lgr := zapr.NewLogger(zapRoot)
		root = &lgr
	})
	if root == nil {
		return &noop
	}
	return root
}

// WithLogger attaches lgr to the context. Attaching the logger that is
// already present returns ctx unchanged.
func WithLogger(ctx context.Context, lgr *logr.Logger) context.Context {
	if cur, ok := ctx.Value(ctxKey{}).(*logr.Logger); ok && cur == lgr {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, lgr)
}

// FromContext returns the logger carried by ctx, the global logger when ctx
// has none, and a no-op logger when Get was never called. Callers always get
// something safe to log through.
func FromContext(ctx context.Context) *logr.Logger {
	if lgr, ok := ctx.Value(ctxKey{}).(*logr.Logger); ok {
		return lgr
	}
	if root != nil {
		return root
	}
	return &noop
}

// Sync flushes buffered entries. Call it on the way out of main.
func Sync() {
	if zapRoot == nil {
		return
	}
	if err := zapRoot.Sync(); err != nil && !ignorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// ignorableSyncError filters the errors Sync reports when stderr is a TTY or
// pipe. Windows consoles return "The handle is invalid." wrapped in an
// *os.PathError that never matches syscall.EINVAL, hence the string check.
func ignorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetGlobalLogger returns the global logger, or a no-op logger before Get
// has run. Useful at the top of main where no context exists yet.
func GetGlobalLogger() *logr.Logger {
	if root != nil {
		return root
	}
	return &noop
}

// GetNoopLogger returns a logger that drops everything.
func GetNoopLogger() *logr.Logger {
	return &noop
}

// WithValues returns a copy of lgr with extra key-value pairs attached.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nl := lgr.WithValues(keysAndValues...)
	return &nl
}
