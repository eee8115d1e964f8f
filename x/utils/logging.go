package utils

import (
	"context"
	"time"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ paystream.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Checker) (*paystream.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, info, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx, next paystream.Deliverer) (*paystream.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, info, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger.
// Retryable failures are expected during normal operation and are logged
// at debug level.
func logDuration(info paystream.BlockInfo, tx paystream.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := info.Logger().With(
		"duration", delta/time.Microsecond,
		"path", paystream.GetPath(tx))

	switch {
	case err != nil && errors.IsRetryable(err):
		logger.Debug(msg, "err", err)
	case err != nil:
		logger.Error(msg, "err", err)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
