package commands

import (
	"context"
	"log/slog"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

type keyedSequence struct {
	Key      ports.ViewKey
	Sequence uint64
}

// dispatchAll tags the in-flight mutation with one sequence number per
// affected key, before the remote write starts.
func dispatchAll(ctx context.Context, views ports.ViewCache, keys []ports.ViewKey) ([]keyedSequence, error) {
	sequences := make([]keyedSequence, 0, len(keys))
	for _, key := range keys {
		seq, err := views.Dispatch(ctx, key)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, keyedSequence{Key: key, Sequence: seq})
	}
	return sequences, nil
}

// invalidateAll applies the success completion. A completion whose sequence
// is behind the latest dispatched for its key is ignored by the cache; the
// later mutation owns that key's invalidation.
func invalidateAll(ctx context.Context, views ports.ViewCache, sequences []keyedSequence, logger *slog.Logger) {
	for _, item := range sequences {
		applied, err := views.Invalidate(ctx, item.Key, item.Sequence)
		if err != nil {
			logger.Error("view invalidation failed",
				"event", "recon_invalidate_failed",
				"module", "identity-access/reconciliation-service",
				"layer", "application",
				"view_kind", string(item.Key.Kind),
				"view_id", item.Key.ID,
				"error", err.Error(),
			)
			continue
		}
		if !applied {
			logger.Debug("view invalidation superseded",
				"event", "recon_invalidate_superseded",
				"module", "identity-access/reconciliation-service",
				"layer", "application",
				"view_kind", string(item.Key.Kind),
				"view_id", item.Key.ID,
				"sequence", item.Sequence,
			)
		}
	}
}

func notify(ctx context.Context, sink ports.NotificationSink, level ports.NotificationLevel, message string) {
	if sink != nil {
		sink.Notify(ctx, level, message)
	}
}

func now(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
