// Package veto is the contextual suppression rule, distinct from the
// guard: it blocks low-priority interruptions of casual chat.
package veto

import (
	"github.com/trindadeeesx/nexus/internal/model"
)

// DefaultConfidenceThreshold is the classification confidence below
// which low-priority chat actions are suppressed.
const DefaultConfidenceThreshold = 0.7

// minInterruptPriority is the priority at or above which an action may
// interrupt casual chat.
const minInterruptPriority = 5

// Layer suppresses an action when the event was classified as casual
// chat, the action is low priority, and classification confidence is
// below the threshold.
type Layer struct {
	confidenceThreshold float64
}

// New creates a veto layer. A non-positive threshold falls back to the
// default.
func New(confidenceThreshold float64) *Layer {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	return &Layer{confidenceThreshold: confidenceThreshold}
}

// Veto returns true when the action should be suppressed.
func (l *Layer) Veto(action model.Action, c model.Classification) bool {
	return c.Intent == model.IntentChat &&
		action.Priority < minInterruptPriority &&
		c.Confidence < l.confidenceThreshold
}
