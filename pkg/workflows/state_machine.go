package workflows

// StateMachine enforces offer status transitions.
type StateMachine struct {
	allowedTransitions map[string][]string
}

// NewOfferStateMachine returns the state machine for sponsorship offer
// statuses. Deleted is a soft-delete terminal state; archived offers can
// be re-published.
func NewOfferStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[string][]string{
			"draft":     {"published", "deleted"},
			"published": {"archived", "deleted"},
			"archived":  {"published", "deleted"},
			"deleted":   {},
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}

// StepOrder ranks onboarding milestones in progression order. Backward
// navigation in the UI never rewrites the persisted value, so the
// persisted step only ever moves forward.
var StepOrder = map[string]int{
	"account_created":  0,
	"team_profile":     1,
	"website_analyzed": 2,
	"packages":         3,
	"review":           4,
	"completed":        5,
}

// CanAdvanceStep reports whether the persisted onboarding step may move
// between two milestones. Re-asserting the current milestone is allowed
// so step writes stay idempotent.
func CanAdvanceStep(from, to string) bool {
	f, okF := StepOrder[from]
	t, okT := StepOrder[to]
	if !okF || !okT {
		return false
	}
	return t >= f
}
