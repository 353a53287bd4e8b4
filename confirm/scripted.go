package confirm

import (
	"context"
	"sync"
)

// Scripted answers with a fixed sequence of decisions, then Execute once the sequence is exhausted.
// It records every proposal it was asked about.
type Scripted struct {
	mu        sync.Mutex
	decisions []Decision
	asked     []Proposal
}

// NewScripted returns a decider replaying decisions in order.
func NewScripted(decisions ...Decision) *Scripted {
	return &Scripted{decisions: decisions}
}

// Decide implements Decider.
func (s *Scripted) Decide(ctx context.Context, p Proposal) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Redisplay, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, p)
	if len(s.decisions) == 0 {
		return Execute, nil
	}
	d := s.decisions[0]
	s.decisions = s.decisions[1:]
	return d, nil
}

// Asked returns every proposal decided so far, in order.
func (s *Scripted) Asked() []Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Proposal(nil), s.asked...)
}
