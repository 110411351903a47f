// Package agent holds the conversational agents and their registry.
// Agents react to raw conversational turns and hold per-agent dialogue
// logic; policies (internal/policy) react to classified events.
package agent

import (
	"github.com/trindadeeesx/nexus/internal/model"
)

// Agent is a capability set over conversational turns.
//
// Think is the primary entry: given the raw turn and the (possibly nil)
// session, it returns a candidate action, or the no-op sentinel when no
// intent matched. Handle is a secondary post-processing transform
// applied to an already-decided action on policy-path flows; it must be
// safe to call on a no-op.
type Agent interface {
	Name() string
	Think(ev *model.ConversationEvent, sess *model.Session) model.Action
	Handle(action model.Action) model.Action
}

// Registry is the explicit list of agent implementers built at startup.
// Lookup is by name; registration order is preserved for deterministic
// iteration.
type Registry struct {
	order  []string
	agents map[string]Agent
}

// NewRegistry builds a registry from the given agents. A later agent
// with a duplicate name replaces the earlier one.
func NewRegistry(agents ...Agent) *Registry {
	r := &Registry{agents: make(map[string]Agent)}
	for _, a := range agents {
		if _, ok := r.agents[a.Name()]; !ok {
			r.order = append(r.order, a.Name())
		}
		r.agents[a.Name()] = a
	}
	return r
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the registered agent names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
