package model

// GuardReason identifies why the guard blocked an action.
type GuardReason string

const (
	ReasonConfidenceTooLow    GuardReason = "confidence_too_low"
	ReasonCooldownActive      GuardReason = "cooldown_active"
	ReasonSilentHours         GuardReason = "silent_hours"
	ReasonVoiceWithoutHotword GuardReason = "voice_without_hotword"
)

// GuardResult is the outcome of a guard check on the chosen action.
type GuardResult struct {
	Allowed bool        `json:"allowed"`
	Reason  GuardReason `json:"reason,omitempty"`
}
