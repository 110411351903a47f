package model

// EventResponse is the response body for POST /event. Blocked and vetoed
// cases carry a synthetic LOG action instead of an error.
type EventResponse struct {
	EventID string `json:"event_id"`
	Action  Action `json:"action"`
}

// ConversationRequest is the request body for POST /conversation.
type ConversationRequest struct {
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	Stream    string    `json:"stream"`
	AgentHint string    `json:"agent_hint,omitempty"`
	Modality  EventType `json:"modality,omitempty"`
}

// ConversationResponse is the response body for POST /conversation.
// Action is null when no agent action survived the pipeline.
type ConversationResponse struct {
	Agent  string       `json:"agent"`
	Action *Action      `json:"action"`
	Result ActionResult `json:"result,omitempty"`
}

// MetricsResponse is the response body for GET /oracle/metrics.
type MetricsResponse struct {
	SuccessRate       float64        `json:"success_rate"`
	AverageConfidence float64        `json:"average_confidence"`
	ActionsCount      map[string]int `json:"actions_count"`
}

// FeedbackItem is one entry in the GET /oracle/feedback listing,
// addressed by its index for the approval call.
type FeedbackItem struct {
	Index       int            `json:"index"`
	Kind        FeedbackKind   `json:"kind"`
	Description string         `json:"description"`
	Severity    int            `json:"severity"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Approved    *bool          `json:"approved"`
}

// ApproveRequest is the request body for POST /oracle/feedback/approve.
type ApproveRequest struct {
	Index    int  `json:"index"`
	Approved bool `json:"approved"`
}
