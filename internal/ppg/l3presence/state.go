package l3presence

// Phase is the hysteresis state of the presence machine.
type Phase string

const (
	PhaseNotPresent    Phase = "not_present"    // no finger
	PhaseCandidate     Phase = "candidate"      // qualifying run in progress
	PhasePresent       Phase = "present"        // finger confirmed
	PhaseCandidateLoss Phase = "candidate_loss" // disqualifying run in progress
)

// State is the presence machine's full state. The zero value is
// PhaseNotPresent with empty counters.
type State struct {
	Phase           Phase  `json:"phase"`
	ConsecutiveGood uint32 `json:"consecutive_good"`
	ConsecutiveBad  uint32 `json:"consecutive_bad"`
}

// IsPresent reports whether the finger counts as present. A finger in
// candidate_loss is still present until the off run completes.
func (s State) IsPresent() bool {
	return s.Phase == PhasePresent || s.Phase == PhaseCandidateLoss
}

func (s State) phase() Phase {
	if s.Phase == "" {
		return PhaseNotPresent
	}
	return s.Phase
}

// Transition returns the state after one frame. It has no side effects.
//
// Presence turns on only once ConsecutiveGood reaches MinConsecutiveOn and
// turns off only once ConsecutiveBad reaches MaxConsecutiveOff.
func Transition(s State, qualifying bool, cfg Config) State {
	next := s
	if qualifying {
		next.ConsecutiveGood++
		next.ConsecutiveBad = 0
	} else {
		next.ConsecutiveBad++
		next.ConsecutiveGood = 0
	}
	on := next.ConsecutiveGood >= uint32(cfg.MinConsecutiveOn)
	off := next.ConsecutiveBad >= uint32(cfg.MaxConsecutiveOff)

	switch s.phase() {
	case PhaseNotPresent, PhaseCandidate:
		switch {
		case qualifying && on:
			next.Phase = PhasePresent
		case qualifying:
			next.Phase = PhaseCandidate
		default:
			next.Phase = PhaseNotPresent
		}
	case PhasePresent, PhaseCandidateLoss:
		switch {
		case qualifying:
			next.Phase = PhasePresent
		case off:
			next.Phase = PhaseNotPresent
		default:
			next.Phase = PhaseCandidateLoss
		}
	}
	return next
}
