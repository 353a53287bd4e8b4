package graspselect

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/motion"
)

// Reachability decides whether a grasp can be both reached and withdrawn from.
type Reachability interface {
	// Check returns the plan to offset when final and offset are both reachable from start.
	Check(ctx context.Context, final, offset referenceframe.PoseInFrame, start referenceframe.JointConfiguration) (*motion.Plan, error)
}

// Checker plans to the final pose, then to the offset pose, both from the same start.
type Checker struct {
	planner motion.Service
	logger  logging.Logger
}

// NewChecker returns a Checker planning with planner.
func NewChecker(planner motion.Service, logger logging.Logger) *Checker {
	return &Checker{planner: planner, logger: logger}
}

// Check implements Reachability. The offset is planned only once the final pose proved reachable.
func (c *Checker) Check(
	ctx context.Context,
	final, offset referenceframe.PoseInFrame,
	start referenceframe.JointConfiguration,
) (*motion.Plan, error) {
	if _, err := c.planner.Plan(ctx, motion.PlanRequest{Start: &start, Target: motion.PoseTarget(final)}); err != nil {
		return nil, errors.Wrap(err, "final pose")
	}
	offsetPlan, err := c.planner.Plan(ctx, motion.PlanRequest{Start: &start, Target: motion.PoseTarget(offset)})
	if err != nil {
		return nil, errors.Wrap(err, "offset pose")
	}
	c.logger.Debugw("grasp reachable", "final", final.String(), "offset", offset.String())
	return offsetPlan, nil
}
