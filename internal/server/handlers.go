package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/oracle"
	"github.com/trindadeeesx/nexus/internal/pipeline"
)

// Handlers holds handler dependencies.
type Handlers struct {
	pipeline *pipeline.Pipeline
	oracle   *oracle.Service
	logger   *slog.Logger
	version  string
	started  time.Time
}

// HandlersDeps holds dependencies for creating Handlers.
type HandlersDeps struct {
	Pipeline *pipeline.Pipeline
	Oracle   *oracle.Service
	Logger   *slog.Logger
	Version  string
}

// NewHandlers creates the handler set.
func NewHandlers(deps HandlersDeps) *Handlers {
	return &Handlers{
		pipeline: deps.Pipeline,
		oracle:   deps.Oracle,
		logger:   deps.Logger,
		version:  deps.Version,
		started:  time.Now(),
	}
}

// HandleEvent runs a raw event through the decision pipeline.
// POST /event
func (h *Handlers) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var event model.Event
	if err := decodeJSON(r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if event.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	event, action := h.pipeline.HandleEvent(r.Context(), event)
	writeJSON(w, http.StatusOK, model.EventResponse{
		EventID: event.ID,
		Action:  action,
	})
}

// HandleConversation routes one conversational turn to an agent.
// POST /conversation
func (h *Handlers) HandleConversation(w http.ResponseWriter, r *http.Request) {
	var req model.ConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" || req.Stream == "" {
		writeError(w, http.StatusBadRequest, "user_id and stream are required")
		return
	}

	agent, action, result := h.pipeline.HandleConversation(r.Context(), req)
	writeJSON(w, http.StatusOK, model.ConversationResponse{
		Agent:  agent,
		Action: action,
		Result: result,
	})
}

// HandleMetrics reports aggregate execution metrics.
// GET /oracle/metrics
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.oracle.Metrics(r.Context())
	if err != nil {
		h.logger.Error("metrics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// HandleInsights runs the analyzer over the full history.
// GET /oracle/insights
func (h *Handlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.oracle.Insights(r.Context())
	if err != nil {
		h.logger.Error("insights failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to analyze history")
		return
	}
	if insights == nil {
		insights = []model.OracleInsight{}
	}
	writeJSON(w, http.StatusOK, insights)
}

// HandleHistory lists observations ascending by timestamp. An absent or
// non-positive limit returns the full history.
// GET /oracle/history?limit=N
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	records, err := h.oracle.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []model.OracleRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleFeedback lists the current feedback actions, indexed for the
// approval call.
// GET /oracle/feedback
func (h *Handlers) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.oracle.Feedback(r.Context())
	if err != nil {
		h.logger.Error("feedback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to derive feedback")
		return
	}

	items := make([]model.FeedbackItem, len(feedback))
	for i, f := range feedback {
		items[i] = model.FeedbackItem{
			Index:       i,
			Kind:        f.Kind,
			Description: f.Description,
			Severity:    f.Severity,
			Metadata:    f.Metadata,
			Approved:    f.Approved,
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleApprove resolves one feedback action by index.
// POST /oracle/feedback/approve
func (h *Handlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req model.ApproveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resolved, err := h.oracle.Approve(req.Index, req.Approved)
	switch {
	case errors.Is(err, oracle.ErrInvalidIndex):
		writeError(w, http.StatusBadRequest, "Índice inválido")
		return
	case errors.Is(err, oracle.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, "feedback already resolved")
		return
	case err != nil:
		h.logger.Error("approve failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to approve feedback")
		return
	}

	writeJSON(w, http.StatusOK, model.FeedbackItem{
		Index:       req.Index,
		Kind:        resolved.Kind,
		Description: resolved.Description,
		Severity:    resolved.Severity,
		Metadata:    resolved.Metadata,
		Approved:    resolved.Approved,
	})
}

// HandleHealth reports liveness.
// GET /health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
