// Package decision arbitrates among candidate actions, picking exactly
// one or none.
package decision

import (
	"github.com/trindadeeesx/nexus/internal/model"
)

// Layer selects the winning candidate under the composite key
// (priority, confidence), both descending. When both are exactly equal
// the first-seen candidate wins, so the result is deterministic for
// identical inputs.
type Layer struct{}

// DecideIndex returns the index of the winning candidate, or -1 when no
// candidate survives no-op filtering.
func (Layer) DecideIndex(candidates []model.Action) int {
	best := -1
	for i, a := range candidates {
		if a.IsNoOp() {
			continue
		}
		if best == -1 || better(a, candidates[best]) {
			best = i
		}
	}
	return best
}

// Decide returns the chosen action and true, or the zero action and
// false when the candidate set is empty after filtering.
func (l Layer) Decide(candidates []model.Action) (model.Action, bool) {
	i := l.DecideIndex(candidates)
	if i < 0 {
		return model.Action{}, false
	}
	return candidates[i], true
}

// better reports whether a strictly outranks b. Ties on priority fall
// through to confidence; full ties keep the earlier candidate.
func better(a, b model.Action) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Confidence > b.Confidence
}
