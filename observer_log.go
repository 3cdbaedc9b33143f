package memoize

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type logObserver struct {
	logger zerolog.Logger
}

// NewLogObserver returns an Observer emitting one structured log event per
// operation. Errors log at error level, everything else at debug.
// @group Observability
//
// Example: log every cache decision
//
//	logger := zerolog.New(os.Stderr)
//	m := memoize.New(loadConfig, memoize.WithName("config"),
//		memoize.WithObserver(memoize.NewLogObserver(logger)))
//	_, _ = m.Call()
func NewLogObserver(logger zerolog.Logger) Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) OnMemoOp(ctx context.Context, op, name string, hit bool, err error, dur time.Duration) {
	event := o.logger.Debug()
	if err != nil {
		event = o.logger.Error().Err(err)
	}
	event.
		Str("op", op).
		Str("name", name).
		Bool("hit", hit).
		Dur("duration", dur).
		Msg("memoize")
}
