package model

import (
	"time"
)

// Recognized metadata keys on oracle records. Each producer writes a
// closed set of keys so serialization stays stable.
const (
	MetaReason = "reason" // guard block reason, or "no_action"
	MetaVetoed = "vetoed" // true when the veto layer suppressed the action
	MetaPolicy = "policy" // name of the policy that proposed the action
	MetaAgent  = "agent"  // name of the agent that proposed the action
)

// OracleRecord is an immutable append-only fact about one decided
// event/action/result tuple.
type OracleRecord struct {
	TS         time.Time      `json:"ts"`
	EventType  EventType      `json:"event_type"`
	Source     string         `json:"source"`
	ActionType ActionType     `json:"action_type"`
	Target     string         `json:"target"`
	Confidence float64        `json:"confidence"`
	Priority   int            `json:"priority"`
	Result     ActionResult   `json:"result"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// InsightType is the category of a derived insight.
type InsightType string

const (
	InsightHabit      InsightType = "habit"
	InsightAnomaly    InsightType = "anomaly"
	InsightSuggestion InsightType = "suggestion"
)

// Insight severity levels.
const (
	SeverityInfo     = 1
	SeverityWarning  = 2
	SeverityCritical = 3
)

// OracleInsight is an ephemeral observation derived from the history.
type OracleInsight struct {
	TS          time.Time      `json:"ts"`
	Type        InsightType    `json:"type"`
	Source      string         `json:"source,omitempty"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	Severity    int            `json:"severity"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// FeedbackKind is the actionable category of a feedback action.
type FeedbackKind string

const (
	FeedbackLog     FeedbackKind = "log"
	FeedbackNotify  FeedbackKind = "notify"
	FeedbackSuggest FeedbackKind = "suggest"
	FeedbackAdjust  FeedbackKind = "adjust"
	FeedbackAskUser FeedbackKind = "ask_user"
)

// FeedbackAction is a ranked follow-up derived from an insight.
// Approved is a tristate: nil until an explicit approve/reject call,
// then fixed.
type FeedbackAction struct {
	Kind        FeedbackKind   `json:"kind"`
	Description string         `json:"description"`
	Severity    int            `json:"severity"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Confidence  float64        `json:"confidence"`
	Approved    *bool          `json:"approved"`
}
