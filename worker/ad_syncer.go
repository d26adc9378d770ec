package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"lead-console/internal/model"
)

// Syncer triggers a server-side ad refresh.
type Syncer interface {
	SyncAds(ctx context.Context) (model.SyncResult, error)
}

// AdSyncer periodically asks the API to refresh ads from Facebook. A failed
// trigger is logged and the next tick tries again.
type AdSyncer struct {
	Client   Syncer
	Interval time.Duration
	Timeout  time.Duration
	Logger   zerolog.Logger
}

func (w *AdSyncer) Name() string { return "ad-syncer" }

func (w *AdSyncer) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *AdSyncer) runOnce(ctx context.Context) {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := w.Client.SyncAds(ctx)
	if err != nil {
		w.Logger.Error().Err(err).Msg("ad sync failed")
		return
	}
	w.Logger.Info().
		Str("message", res.Message).
		Int("total", res.Stats.Total).
		Int("created", res.Stats.Created).
		Int("updated", res.Stats.Updated).
		Int("deactivated", res.Stats.Deactivated).
		Dur("took", time.Since(start)).
		Msg("ad sync completed")
}
