// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"unaligned/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// RunID distinguishes runs sharing the same append-only log.
	RunID uuid.UUID

	start         time.Time
	restoreStdLog func()
	closeLog      func() error
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func newLocalEnv() *LocalEnv {
	env := &LocalEnv{start: time.Now()}
	if id, err := uuid.NewV7(); err == nil {
		env.RunID = id
	} else {
		env.RunID = uuid.New()
	}
	return env
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// PrepareLog builds program logger from configuration and tags every entry
// with run identifier.
func (e *LocalEnv) PrepareLog() error {
	log, closer, err := e.Cfg.Logging.Prepare(e.Rpt)
	if err != nil {
		return err
	}
	e.Log = log.With(zap.Stringer("run", e.RunID))
	e.closeLog = closer
	return nil
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog syncs and releases the log. Nothing should be logged after
// this call.
func (e *LocalEnv) RestoreStdLog() (err error) {
	if e.Log != nil {
		// syncing console (tty) results in EINVAL on some systems, only file
		// matters here and it is closed below
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
	if e.closeLog != nil {
		err = multierr.Append(err, e.closeLog())
		e.closeLog = nil
	}
	return err
}
