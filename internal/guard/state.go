package guard

import (
	"sync"
	"time"
)

// State holds the process-wide last-action timestamp consulted by the
// cooldown rule. The mutex keeps the read-then-compare and the
// post-execution update coherent across concurrent requests.
type State struct {
	mu         sync.Mutex
	lastAction time.Time
	set        bool
}

// NewState returns a fresh state; the cooldown is reset at process start.
func NewState() *State {
	return &State{}
}

// LastAction returns the time of the last executed action, if any.
func (s *State) LastAction() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAction, s.set
}

// MarkAction records that an action was just executed.
func (s *State) MarkAction(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAction = t
	s.set = true
}
