package model

import (
	"time"
)

// EventType represents the ingress modality of an event.
type EventType string

const (
	EventText   EventType = "text"
	EventVoice  EventType = "voice"
	EventSystem EventType = "system"
)

// Event is the raw unit of input to the decision pipeline.
// Identity is assigned on ingress if absent; the event is treated as
// immutable once classified.
type Event struct {
	ID      string         `json:"id,omitempty"`
	Type    EventType      `json:"type"`
	Source  string         `json:"source"`
	Payload map[string]any `json:"payload"`
}

// Text returns the payload text, or the empty string when absent.
func (e Event) Text() string {
	if s, ok := e.Payload["text"].(string); ok {
		return s
	}
	return ""
}

// HotwordInvoked reports whether a voice event was triggered by the hotword.
func (e Event) HotwordInvoked() bool {
	v, ok := e.Payload["invoked_by_hotword"].(bool)
	return ok && v
}

// ConversationEvent is the richer event used by the session-routed agent
// path. SessionID is filled in by the router once a session is resolved.
type ConversationEvent struct {
	EventID   string         `json:"event_id"`
	Timestamp time.Time      `json:"timestamp"`
	Stream    string         `json:"stream"`
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id,omitempty"`
	AgentHint string         `json:"agent_hint,omitempty"`
	Modality  EventType      `json:"modality"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
