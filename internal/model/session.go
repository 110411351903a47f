package model

import (
	"sync"
	"time"
)

// SessionState is the lifecycle state of a conversation session.
type SessionState string

const (
	SessionIdle           SessionState = "idle"
	SessionInConversation SessionState = "in_conversation"
	SessionClosing        SessionState = "closing"
	SessionInactive       SessionState = "inactive"
)

// Session is the sticky binding of a (user, stream) pair to one
// conversational agent. Owned exclusively by the session manager and
// evicted after a fixed inactivity timeout.
//
// SessionID, UserID, Stream and Agent are immutable after creation.
// State and Context are mutated during turns; callers hold Lock for
// the whole turn. LastActivity is managed by the session manager under
// its own lock.
type Session struct {
	mu sync.Mutex

	SessionID    string         `json:"session_id"`
	UserID       string         `json:"user_id"`
	Stream       string         `json:"stream"`
	Agent        string         `json:"agent"`
	State        SessionState   `json:"state"`
	LastActivity time.Time      `json:"last_activity"`
	Context      map[string]any `json:"context"`
}

// Lock serializes turn access to the session's mutable fields.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }
