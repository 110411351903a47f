package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trindadeeesx/nexus/internal/adapter"
	"github.com/trindadeeesx/nexus/internal/agent"
	"github.com/trindadeeesx/nexus/internal/echo"
	"github.com/trindadeeesx/nexus/internal/guard"
	"github.com/trindadeeesx/nexus/internal/memory"
	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/oracle"
	"github.com/trindadeeesx/nexus/internal/pipeline"
	"github.com/trindadeeesx/nexus/internal/policy"
	"github.com/trindadeeesx/nexus/internal/ratelimit"
	"github.com/trindadeeesx/nexus/internal/server"
	"github.com/trindadeeesx/nexus/internal/session"
	"github.com/trindadeeesx/nexus/internal/storage"
	"github.com/trindadeeesx/nexus/internal/veto"
)

func newTestServer(t *testing.T, limiter ratelimit.Limiter) *server.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(context.Background(), t.TempDir()+"/oracle.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return noon }

	svc := oracle.NewService(store, logger)
	sessions := session.NewManager(session.DefaultTimeout).WithClock(clock)

	cooldownOff := guard.DefaultConfig()
	cooldownOff.Cooldown = 0

	p := pipeline.New(pipeline.Config{
		Policies: policy.NewEngine(policy.FoodPolicy{}, policy.ChatPolicy{}),
		Guard:    guard.New(cooldownOff).WithClock(clock),
		Veto:     veto.New(veto.DefaultConfidenceThreshold),
		Sessions: sessions,
		Router:   session.NewRouter(sessions, "lucia"),
		Agents:   agent.NewRegistry(agent.Lucia{}, agent.Dominus{}),
		Executor: echo.New(adapter.Terminal{W: io.Discard}),
		Oracle:   svc,
		Memory:   memory.NewStore(memory.DefaultLimit),
		Logger:   logger,
	}).WithClock(clock)

	return server.New(server.Config{
		Pipeline:     p,
		Oracle:       svc,
		Logger:       logger,
		Limiter:      limiter,
		Port:         0,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Version:      "test",
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:50000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleEventFood(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/event",
		`{"type":"text","source":"terminal","payload":{"text":"quero uma receita de bolo"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.EventID)
	assert.Equal(t, model.ActionSendMessage, resp.Action.Type)
	assert.Equal(t, "Posso sugerir uma receita se quiser.", resp.Action.Text())
}

func TestHandleEventValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/event", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodPost, "/event", `{"source":"terminal"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "type is required")

	rec = doJSON(t, s.Handler(), http.MethodPost, "/event",
		`{"type":"text","source":"t","payload":{},"bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConversation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/conversation",
		`{"text":"quero bolo","user_id":"u1","stream":"terminal"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lucia", resp.Agent)
	require.NotNil(t, resp.Action)
	assert.Contains(t, resp.Action.Text(), "Lúcia diz:")
}

func TestHandleConversationValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/conversation", `{"text":"oi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_id and stream are required")
}

func TestOracleEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	// Seed two observations through the pipeline.
	for _, text := range []string{"quero bolo", "quero torta"} {
		rec := doJSON(t, s.Handler(), http.MethodPost, "/event",
			`{"type":"text","source":"terminal","payload":{"text":"`+text+`"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, s.Handler(), http.MethodGet, "/oracle/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics model.MetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 1.0, metrics.SuccessRate)
	assert.Equal(t, 2, metrics.ActionsCount[string(model.ActionSendMessage)])

	rec = doJSON(t, s.Handler(), http.MethodGet, "/oracle/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []model.OracleRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 2)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/oracle/history?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	records = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/oracle/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/oracle/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "["))
}

func TestApproveInvalidIndex(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/oracle/feedback/approve",
		`{"index":99,"approved":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Índice inválido"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec = doJSON(t, s.Handler(), http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimitedEvent(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(0.001, 1)
	t.Cleanup(func() { limiter.Close() })
	s := newTestServer(t, limiter)

	body := `{"type":"text","source":"terminal","payload":{"text":"oi"}}`
	rec := doJSON(t, s.Handler(), http.MethodPost, "/event", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodPost, "/event", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
