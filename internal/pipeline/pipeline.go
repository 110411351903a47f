// Package pipeline wires the decision stages into the two request
// paths: the policy path for raw events and the session-routed agent
// path for conversational turns.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/trindadeeesx/nexus/internal/agent"
	"github.com/trindadeeesx/nexus/internal/classify"
	"github.com/trindadeeesx/nexus/internal/decision"
	"github.com/trindadeeesx/nexus/internal/echo"
	"github.com/trindadeeesx/nexus/internal/guard"
	"github.com/trindadeeesx/nexus/internal/memory"
	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/oracle"
	"github.com/trindadeeesx/nexus/internal/policy"
	"github.com/trindadeeesx/nexus/internal/session"
	"github.com/trindadeeesx/nexus/internal/veto"
)

var tracer = otel.Tracer("nexus/pipeline")

// Pipeline holds every stage plus the shared state the guard's cooldown
// reads. All dependencies are injected; there are no ambient singletons.
type Pipeline struct {
	policies *policy.Engine
	decider  decision.Layer
	guard    *guard.Guard
	state    *guard.State
	veto     *veto.Layer
	sessions *session.Manager
	router   *session.Router
	agents   *agent.Registry
	exec     echo.Executor
	oracle   *oracle.Service
	memory   *memory.Store
	logger   *slog.Logger
	now      func() time.Time
}

// Config holds the pipeline dependencies.
type Config struct {
	Policies *policy.Engine
	Guard    *guard.Guard
	Veto     *veto.Layer
	Sessions *session.Manager
	Router   *session.Router
	Agents   *agent.Registry
	Executor echo.Executor
	Oracle   *oracle.Service
	Memory   *memory.Store
	Logger   *slog.Logger
}

// New assembles a pipeline. The cooldown state starts fresh.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		policies: cfg.Policies,
		guard:    cfg.Guard,
		state:    guard.NewState(),
		veto:     cfg.Veto,
		sessions: cfg.Sessions,
		router:   cfg.Router,
		agents:   cfg.Agents,
		exec:     cfg.Executor,
		oracle:   cfg.Oracle,
		memory:   cfg.Memory,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// WithClock replaces the pipeline's clock. Test seam for the cooldown.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// observe records to the oracle; a failing store never fails the request.
func (p *Pipeline) observe(ctx context.Context, event model.Event, action model.Action, result model.ActionResult, metadata map[string]any) {
	if err := p.oracle.Observe(ctx, event, action, result, metadata); err != nil {
		p.logger.Error("oracle observe failed", "error", err)
	}
}

// HandleEvent runs the policy path: classify, propose, decide, guard,
// veto, execute, observe. The returned event carries its assigned ID;
// the returned action is the executed one, or a synthetic LOG action
// when nothing survived.
func (p *Pipeline) HandleEvent(ctx context.Context, event model.Event) (model.Event, model.Action) {
	ctx, span := tracer.Start(ctx, "pipeline.HandleEvent")
	defer span.End()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	span.SetAttributes(
		attribute.String("event.id", event.ID),
		attribute.String("event.type", string(event.Type)),
	)

	if text := event.Text(); text != "" {
		p.memory.Remember(event.Source, text)
	}

	classification := classify.Classify(event)
	proposals := p.policies.Run(event, classification)
	candidates := policy.Actions(proposals)

	idx := p.decider.DecideIndex(candidates)
	if idx < 0 {
		final := model.LogAction(map[string]any{"info": "no action decided"})
		p.observe(ctx, event, final, model.ResultIgnored, map[string]any{model.MetaReason: "no_action"})
		return event, final
	}
	chosen := candidates[idx]
	policyName := proposals[idx].Policy
	span.SetAttributes(attribute.String("pipeline.policy", policyName))

	if res := p.guard.Check(chosen, p.state, &event); !res.Allowed {
		p.logger.Warn("action blocked", "reason", res.Reason, "event_id", event.ID)
		p.observe(ctx, event, chosen, model.ResultIgnored, map[string]any{
			model.MetaReason: string(res.Reason),
			model.MetaPolicy: policyName,
		})
		return event, model.LogAction(map[string]any{"blocked_by": string(res.Reason)})
	}

	if p.veto.Veto(chosen, classification) {
		p.logger.Info("action vetoed", "event_id", event.ID, "priority", chosen.Priority)
		p.observe(ctx, event, chosen, model.ResultIgnored, map[string]any{
			model.MetaVetoed: true,
			model.MetaPolicy: policyName,
		})
		return event, model.LogAction(map[string]any{"vetoed": true})
	}

	result := p.exec.Execute(chosen)
	p.state.MarkAction(p.now())
	p.observe(ctx, event, chosen, result, map[string]any{model.MetaPolicy: policyName})

	if chosen.Type == model.ActionSendMessage {
		p.memory.Remember(event.Source, chosen.Text())
	}
	return event, chosen
}

// HandleConversation runs the session-routed agent path: route, think,
// veto, guard, execute, observe. The action is nil when no agent action
// survived.
func (p *Pipeline) HandleConversation(ctx context.Context, req model.ConversationRequest) (string, *model.Action, model.ActionResult) {
	ctx, span := tracer.Start(ctx, "pipeline.HandleConversation")
	defer span.End()

	modality := req.Modality
	if modality == "" {
		modality = model.EventText
	}

	convo := model.ConversationEvent{
		EventID:   uuid.New().String(),
		Timestamp: p.now(),
		Stream:    req.Stream,
		UserID:    req.UserID,
		AgentHint: req.AgentHint,
		Modality:  modality,
		Content:   req.Text,
	}

	// The raw-event shape of this turn, for classification, the guard's
	// voice rule, and the oracle record.
	event := model.Event{
		ID:      convo.EventID,
		Type:    modality,
		Source:  req.Stream,
		Payload: map[string]any{"text": req.Text},
	}
	classification := classify.Classify(event)

	agentName := p.router.DecideAgent(&convo)
	span.SetAttributes(attribute.String("pipeline.agent", agentName))

	ag, ok := p.agents.Get(agentName)
	if !ok {
		p.logger.Warn("no such agent", "agent", agentName)
		return agentName, nil, ""
	}

	sess := p.sessions.Get(req.UserID, req.Stream)
	if sess == nil {
		sess = p.sessions.Start(req.UserID, req.Stream, agentName)
		convo.SessionID = sess.SessionID
	}
	// Hold the session lock for the whole turn: concurrent turns for the
	// same (user, stream) otherwise race on Context and State.
	sess.Lock()
	sess.Context["recent"] = p.memory.Recall(req.Stream)
	p.memory.Remember(req.Stream, req.Text)
	action := ag.Think(&convo, sess)
	sess.Unlock()
	if action.IsNoOp() {
		return agentName, nil, ""
	}

	if p.veto.Veto(action, classification) {
		p.observe(ctx, event, action, model.ResultIgnored, map[string]any{
			model.MetaVetoed: true,
			model.MetaAgent:  agentName,
		})
		return agentName, nil, ""
	}

	if res := p.guard.Check(action, p.state, &event); !res.Allowed {
		p.observe(ctx, event, action, model.ResultIgnored, map[string]any{
			model.MetaReason: string(res.Reason),
			model.MetaAgent:  agentName,
		})
		return agentName, nil, ""
	}

	result := p.exec.Execute(action)
	p.state.MarkAction(p.now())
	p.observe(ctx, event, action, result, map[string]any{model.MetaAgent: agentName})

	if action.Type == model.ActionSendMessage {
		p.memory.Remember(req.Stream, action.Text())
	}
	return agentName, &action, result
}
