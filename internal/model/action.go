package model

// ActionType represents the kind of action the pipeline may take.
type ActionType string

const (
	ActionSendMessage ActionType = "send_message"
	ActionLog         ActionType = "log"
	ActionSpeak       ActionType = "speak"
	ActionNoOp        ActionType = "no_op"
)

// Action is a candidate (or final) action proposed for an event.
// Exactly one action is ever chosen per event.
type Action struct {
	Type       ActionType     `json:"type"`
	Target     string         `json:"target"`
	Payload    map[string]any `json:"payload"`
	Confidence float64        `json:"confidence"`
	Priority   int            `json:"priority"`
}

// NoOp returns the distinguished "nothing to do" sentinel. It must be
// filtered out before arbitration.
func NoOp(reason string) Action {
	return Action{
		Type:       ActionNoOp,
		Target:     "system",
		Payload:    map[string]any{"reason": reason},
		Confidence: 0,
		Priority:   -1,
	}
}

// IsNoOp reports whether the action is the no-op sentinel.
func (a Action) IsNoOp() bool {
	return a.Type == ActionNoOp
}

// Text returns the payload text, or the empty string when absent.
func (a Action) Text() string {
	if s, ok := a.Payload["text"].(string); ok {
		return s
	}
	return ""
}

// LogAction builds the synthetic LOG action used to surface blocked,
// vetoed, and undecided outcomes as data instead of errors.
func LogAction(payload map[string]any) Action {
	return Action{
		Type:    ActionLog,
		Target:  "system",
		Payload: payload,
	}
}

// ActionResult classifies the outcome of executing an action.
type ActionResult string

const (
	ResultSuccess ActionResult = "success"
	ResultIgnored ActionResult = "ignored"
	ResultFailed  ActionResult = "failed"
)
