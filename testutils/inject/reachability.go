package inject

import (
	"context"

	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/graspselect"
	"go.viam.com/graspexec/services/motion"
)

// Reachability is an injected reachability checker.
type Reachability struct {
	graspselect.Reachability
	CheckFunc func(
		ctx context.Context,
		final, offset referenceframe.PoseInFrame,
		start referenceframe.JointConfiguration,
	) (*motion.Plan, error)
}

// Check calls the injected Check or the real version.
func (r *Reachability) Check(
	ctx context.Context,
	final, offset referenceframe.PoseInFrame,
	start referenceframe.JointConfiguration,
) (*motion.Plan, error) {
	if r.CheckFunc == nil {
		return r.Reachability.Check(ctx, final, offset, start)
	}
	return r.CheckFunc(ctx, final, offset, start)
}
