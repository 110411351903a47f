package session

import (
	"github.com/trindadeeesx/nexus/internal/model"
)

// Router picks which conversational agent owns a given event. At most
// one agent owns a (user, stream) pair at any instant.
type Router struct {
	sessions     *Manager
	defaultAgent string
}

// NewRouter creates a router backed by the given session manager.
func NewRouter(sessions *Manager, defaultAgent string) *Router {
	return &Router{sessions: sessions, defaultAgent: defaultAgent}
}

// DecideAgent resolves the owning agent for the event, in priority
// order: a live session's bound agent (sticky, activity refreshed), an
// explicit agent hint (starts a new session), or the default agent.
// Hint-based switching only takes effect when no session is active.
// The event's SessionID is filled in when a session is resolved.
func (r *Router) DecideAgent(ev *model.ConversationEvent) string {
	if s := r.sessions.Get(ev.UserID, ev.Stream); s != nil {
		r.sessions.Touch(s)
		ev.SessionID = s.SessionID
		return s.Agent
	}

	if ev.AgentHint != "" {
		s := r.sessions.Start(ev.UserID, ev.Stream, ev.AgentHint)
		ev.SessionID = s.SessionID
		return s.Agent
	}

	return r.defaultAgent
}
