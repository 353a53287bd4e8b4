// Package confirm gates every planned motion behind an execute decision. The proposed trajectory is
// displayed, and the decision provider either executes it or asks for it to be displayed again.
package confirm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/services/motion"
)

// Decision is the answer to one proposal.
type Decision int

// The two possible decisions.
const (
	Execute Decision = iota
	Redisplay
)

func (d Decision) String() string {
	switch d {
	case Execute:
		return "execute"
	case Redisplay:
		return "display again"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// Proposal is a planned motion awaiting a decision.
type Proposal struct {
	Description string
	Plan        *motion.Plan
}

// A Decider chooses what to do with a proposal.
type Decider interface {
	Decide(ctx context.Context, p Proposal) (Decision, error)
}

// A Displayer shows a proposal to whoever decides.
type Displayer interface {
	Display(ctx context.Context, p Proposal) error
}

// Gate displays each proposal and asks its decider until the answer is Execute.
type Gate struct {
	decider   Decider
	displayer Displayer
	logger    logging.Logger
}

// NewGate returns a confirmation gate. A nil displayer displays nothing.
func NewGate(decider Decider, displayer Displayer, logger logging.Logger) *Gate {
	return &Gate{decider: decider, displayer: displayer, logger: logger}
}

// Confirm returns nil once the proposal is approved for execution.
func (g *Gate) Confirm(ctx context.Context, p Proposal) error {
	for {
		if g.displayer != nil {
			if err := g.displayer.Display(ctx, p); err != nil {
				g.logger.Warnw("failed to display trajectory", "motion", p.Description, "error", err)
			}
		}
		decision, err := g.decider.Decide(ctx, p)
		if err != nil {
			return errors.Wrapf(err, "confirming %s", p.Description)
		}
		g.logger.Debugw("decision", "motion", p.Description, "decision", decision.String())
		if decision == Execute {
			return nil
		}
	}
}

// AlwaysExecute approves every proposal.
type AlwaysExecute struct{}

// Decide implements Decider.
func (AlwaysExecute) Decide(ctx context.Context, _ Proposal) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Redisplay, err
	}
	return Execute, nil
}
