package oracle

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/storage"
)

// Approval errors.
var (
	ErrInvalidIndex    = errors.New("oracle: feedback index out of range")
	ErrAlreadyResolved = errors.New("oracle: feedback action already resolved")
)

// Service ties the observer, analyzer, and feedback processor to one
// store, and holds the most recent feedback listing for index-addressed
// approval.
type Service struct {
	store    *storage.DB
	observer *Observer
	analyzer *Analyzer
	logger   *slog.Logger

	mu       sync.Mutex
	feedback []model.FeedbackAction
}

// NewService creates an oracle service over the given store.
func NewService(store *storage.DB, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		observer: NewObserver(store, logger),
		analyzer: NewAnalyzer(),
		logger:   logger,
	}
}

// Observe records one decided event/action/result tuple.
func (s *Service) Observe(ctx context.Context, event model.Event, action model.Action, result model.ActionResult, metadata map[string]any) error {
	return s.observer.Observe(ctx, event, action, result, metadata)
}

// History returns stored records ascending by timestamp; a non-positive
// limit returns everything.
func (s *Service) History(ctx context.Context, limit int) ([]model.OracleRecord, error) {
	return s.store.LoadObservations(ctx, limit)
}

// Insights analyzes the full history on demand.
func (s *Service) Insights(ctx context.Context) ([]model.OracleInsight, error) {
	history, err := s.store.LoadObservations(ctx, 0)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(history), nil
}

// Feedback derives feedback actions from fresh insights and replaces
// the service's current listing. Earlier approvals refer to the
// superseded listing and do not carry over.
func (s *Service) Feedback(ctx context.Context) ([]model.FeedbackAction, error) {
	insights, err := s.Insights(ctx)
	if err != nil {
		return nil, err
	}
	actions := ProcessInsights(insights)

	s.mu.Lock()
	s.feedback = actions
	out := make([]model.FeedbackAction, len(actions))
	copy(out, actions)
	s.mu.Unlock()
	return out, nil
}

// Approve records intent for the feedback action at index. Approval is
// settable exactly once and has no side effect beyond recording it.
func (s *Service) Approve(index int, approved bool) (model.FeedbackAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.feedback) {
		return model.FeedbackAction{}, ErrInvalidIndex
	}
	if s.feedback[index].Approved != nil {
		return model.FeedbackAction{}, ErrAlreadyResolved
	}
	s.feedback[index].Approved = &approved

	s.logger.Info("feedback resolved", "index", index, "approved", approved)
	return s.feedback[index], nil
}

// Metrics computes the aggregate view over the observation table.
func (s *Service) Metrics(ctx context.Context) (model.MetricsResponse, error) {
	rate, err := s.store.SuccessRate(ctx)
	if err != nil {
		return model.MetricsResponse{}, err
	}
	avg, err := s.store.AverageConfidence(ctx)
	if err != nil {
		return model.MetricsResponse{}, err
	}
	counts, err := s.store.ActionCounts(ctx)
	if err != nil {
		return model.MetricsResponse{}, err
	}
	return model.MetricsResponse{
		SuccessRate:       rate,
		AverageConfidence: avg,
		ActionsCount:      counts,
	}, nil
}
