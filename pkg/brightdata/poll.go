package brightdata

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollCeiling  = 60 * time.Second
)

// ErrSnapshotPending is returned when a snapshot is still not ready after
// the polling ceiling.
var ErrSnapshotPending = errors.New("brightdata: snapshot still pending")

// PollOption configures polling behavior.
type PollOption func(*pollConfig)

type pollConfig struct {
	interval time.Duration
	ceiling  time.Duration
}

// WithPollInterval overrides the fixed poll interval.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.interval = d
	}
}

// WithPollCeiling overrides the total time spent polling.
func WithPollCeiling(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.ceiling = d
	}
}

// PollSnapshot polls a snapshot at a fixed interval until it returns 200 or
// the ceiling passes. Transport failures count as "not ready". It returns
// the ready body, ErrSnapshotPending at the ceiling, or the context error.
func PollSnapshot(ctx context.Context, client Client, id string, opts ...PollOption) ([]byte, error) {
	cfg := pollConfig{interval: defaultPollInterval, ceiling: defaultPollCeiling}
	for _, opt := range opts {
		opt(&cfg)
	}

	deadline := time.Now().Add(cfg.ceiling)
	for time.Now().Before(deadline) {
		snap, err := client.Snapshot(ctx, id)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zap.L().Debug("brightdata: snapshot poll failed", zap.String("snapshot_id", id), zap.Error(err))
		case snap.Ready:
			return snap.Body, nil
		}

		timer := time.NewTimer(cfg.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, ErrSnapshotPending
}
