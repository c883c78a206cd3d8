package memo

import (
	"context"
	"time"

	"github.com/apex/log"
)

type logObserver struct {
	logger log.Interface
}

// NewLogObserver returns an Observer that writes one structured entry per
// operation. Successful operations log at debug, failures at warn.
// A nil logger uses the apex/log package logger.
// @group Observability
//
// Example: log operations
//
//	log.SetLevel(log.DebugLevel)
//	m := memo.New[int](nil, memo.WithObserver(memo.NewLogObserver(log.Log)))
//	m.Set(memo.IntKey(1), 1, false)
func NewLogObserver(logger log.Interface) Observer {
	if logger == nil {
		logger = log.Log
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) OnMemoOp(_ context.Context, op string, key Key, hit bool, err error, dur time.Duration, driver Driver) {
	entry := o.logger.WithFields(log.Fields{
		"op":       op,
		"key":      key.String(),
		"hit":      hit,
		"driver":   string(driver),
		"duration": dur.String(),
	})
	if err != nil {
		entry.WithError(err).Warn("memo op failed")
		return
	}
	entry.Debug("memo op")
}
