// Package motion talks to the external motion-planning service: plan a trajectory to a pose or joint
// target, execute it, stop, and read the current end-effector pose.
package motion

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/graspexec/referenceframe"
)

// ErrPlanInfeasible is returned when the planner produces no trajectory for a target.
var ErrPlanInfeasible = errors.New("no feasible trajectory to target")

// Waypoint is one point of a planned joint trajectory.
type Waypoint struct {
	Positions     []float64     `json:"positions"`
	TimeFromStart time.Duration `json:"time_from_start"`
}

// Plan is a feasible trajectory. A Plan returned without error always has at least one waypoint.
type Plan struct {
	ID        string                             `json:"id"`
	Start     *referenceframe.JointConfiguration `json:"start,omitempty"`
	Target    Target                             `json:"target"`
	Waypoints []Waypoint                         `json:"waypoints"`
}

// Target is either a pose or a joint configuration.
type Target struct {
	Pose   *referenceframe.PoseInFrame        `json:"pose,omitempty"`
	Joints *referenceframe.JointConfiguration `json:"joints,omitempty"`
}

// PoseTarget targets an end-effector pose.
func PoseTarget(pose referenceframe.PoseInFrame) Target {
	return Target{Pose: &pose}
}

// JointTarget targets a joint configuration.
func JointTarget(joints referenceframe.JointConfiguration) Target {
	return Target{Joints: &joints}
}

func (t Target) String() string {
	switch {
	case t.Pose != nil:
		return "pose " + t.Pose.String()
	case t.Joints != nil:
		return "joints " + t.Joints.String()
	}
	return "empty target"
}

// PlanRequest asks for a trajectory to Target. A nil Start plans from the arm's current state.
type PlanRequest struct {
	Start  *referenceframe.JointConfiguration
	Target Target
}

// A Service plans and executes arm motion. At most one call is in flight at a time.
type Service interface {
	Plan(ctx context.Context, req PlanRequest) (*Plan, error)
	Execute(ctx context.Context, plan *Plan) error
	Stop(ctx context.Context) error
	CurrentPose(ctx context.Context) (referenceframe.PoseInFrame, error)
}

// NewPlanInfeasibleError wraps ErrPlanInfeasible with the target that failed.
func NewPlanInfeasibleError(target Target, reason string) error {
	if reason == "" {
		return errors.Wrapf(ErrPlanInfeasible, "%s", target)
	}
	return errors.Wrapf(ErrPlanInfeasible, "%s: %s", target, reason)
}
