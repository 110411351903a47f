// Package policy holds the ordered set of reaction policies and the
// engine that collects their proposals for a classified event.
package policy

import (
	"github.com/trindadeeesx/nexus/internal/model"
)

// Policy proposes candidate actions for a classified event. Implementations
// must be side-effect-free and may return zero, one, or multiple actions.
type Policy interface {
	Name() string
	Applies(event model.Event, c model.Classification) bool
	Evaluate(event model.Event, c model.Classification) []model.Action
}

// Proposal pairs a candidate action with the policy that produced it,
// so the oracle can attribute outcomes per policy.
type Proposal struct {
	Policy string
	Action model.Action
}

// Engine runs an ordered sequence of policies. Order does not affect
// correctness, only tie-break ordering among equal-ranked proposals.
type Engine struct {
	policies []Policy
}

// NewEngine builds an engine over the given policies, evaluated in order.
func NewEngine(policies ...Policy) *Engine {
	return &Engine{policies: policies}
}

// Run returns the concatenation, in policy order, of every Evaluate
// result for policies whose Applies returned true.
func (e *Engine) Run(event model.Event, c model.Classification) []Proposal {
	var proposals []Proposal
	for _, p := range e.policies {
		if !p.Applies(event, c) {
			continue
		}
		for _, a := range p.Evaluate(event, c) {
			proposals = append(proposals, Proposal{Policy: p.Name(), Action: a})
		}
	}
	return proposals
}

// Actions projects the proposal list into the bare candidate actions,
// preserving order.
func Actions(proposals []Proposal) []model.Action {
	actions := make([]model.Action, len(proposals))
	for i, p := range proposals {
		actions[i] = p.Action
	}
	return actions
}
