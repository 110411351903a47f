// Package echo applies the final action to the outside world and
// reports the outcome.
package echo

import (
	"github.com/trindadeeesx/nexus/internal/adapter"
	"github.com/trindadeeesx/nexus/internal/model"
)

// Executor applies an action and classifies the outcome.
type Executor interface {
	Execute(action model.Action) model.ActionResult
}

// Echo is the default executor. The result mapping is deterministic by
// action type; SPEAK is IGNORED until voice output exists.
type Echo struct {
	adapter adapter.Adapter
}

// New creates an executor. The adapter may be nil; then actions are
// classified without being emitted anywhere.
func New(a adapter.Adapter) *Echo {
	return &Echo{adapter: a}
}

// Execute emits the action to the bound adapter and returns the outcome.
func (e *Echo) Execute(action model.Action) model.ActionResult {
	var result model.ActionResult
	switch action.Type {
	case model.ActionSendMessage, model.ActionLog:
		result = model.ResultSuccess
	case model.ActionSpeak:
		result = model.ResultIgnored
	default:
		result = model.ResultFailed
	}

	if e.adapter != nil && result == model.ResultSuccess {
		e.adapter.Send(action)
	}
	return result
}
