package fulfillment

import "fmt"

// Phase tracks a checkout attempt through routing and submission.
type Phase string

const (
	PhaseNew        Phase = "new"
	PhaseRouted     Phase = "routed"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhasePartial    Phase = "partial"
	PhaseFailed     Phase = "failed"
)

var transitions = map[Phase][]Phase{
	PhaseNew:        {PhaseRouted},
	PhaseRouted:     {PhaseSubmitting},
	PhaseSubmitting: {PhaseSuccess, PhasePartial, PhaseFailed},
}

// CanAdvance reports whether the attempt may move from p to next.
func (p Phase) CanAdvance(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (p Phase) Terminal() bool {
	return len(transitions[p]) == 0
}

func mustAdvance(p, next Phase) Phase {
	if !p.CanAdvance(next) {
		panic(fmt.Sprintf("fulfillment: illegal phase transition %s -> %s", p, next))
	}
	return next
}

func phaseFor(s Status) Phase {
	switch s {
	case StatusSuccess:
		return PhaseSuccess
	case StatusPartial:
		return PhasePartial
	default:
		return PhaseFailed
	}
}
