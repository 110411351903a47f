// Package oracle records decided event/action/result tuples, mines the
// history for habits and anomalies, and converts insights into ranked
// follow-up actions.
package oracle

import (
	"context"
	"log/slog"
	"time"

	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/storage"
)

// Observer appends observation records to the backing store. No
// filtering: every decided-and-executed-or-blocked action is recorded.
type Observer struct {
	store  *storage.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewObserver creates an observer over the given store.
func NewObserver(store *storage.DB, logger *slog.Logger) *Observer {
	return &Observer{store: store, logger: logger, now: time.Now}
}

// Observe appends one immutable record tagged with the caller-supplied
// metadata and logs a one-line trace.
func (o *Observer) Observe(ctx context.Context, event model.Event, action model.Action, result model.ActionResult, metadata map[string]any) error {
	rec := model.OracleRecord{
		TS:         o.now().UTC(),
		EventType:  event.Type,
		Source:     event.Source,
		ActionType: action.Type,
		Target:     action.Target,
		Confidence: action.Confidence,
		Priority:   action.Priority,
		Result:     result,
		Metadata:   metadata,
	}

	if err := o.store.SaveObservation(ctx, rec); err != nil {
		return err
	}

	o.logger.Info("oracle observe",
		"action", action.Type,
		"result", result,
		"confidence", action.Confidence,
	)
	return nil
}
