package pickplace

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/components/gripper"
	"go.viam.com/graspexec/referenceframe"
)

// ForceClose steps the gripper down until the measured force exceeds the threshold, then closes it once.
// It returns the number of descent steps issued. Reaching the step ceiling closes the gripper anyway.
func (m *Machine) ForceClose(ctx context.Context) (int, error) {
	steps := 0
	for {
		wrench, err := m.sensor.Wrench(ctx)
		if err != nil {
			return steps, errors.Wrap(err, "reading force")
		}
		force := wrench.ForceMagnitude()
		if force > m.cfg.ForceThreshold {
			m.logger.Debugw("contact", "force", force, "steps", steps)
			break
		}
		if m.cfg.MaxDescentSteps > 0 && steps >= m.cfg.MaxDescentSteps {
			m.logger.Warnw("no contact within descent limit, closing anyway", "steps", steps, "force", force)
			break
		}

		current, err := m.planner.CurrentPose(ctx)
		if err != nil {
			return steps, err
		}
		lower := referenceframe.NewPoseInFrame(current.Frame, current.Pose.Translate(r3.Vector{Z: -m.cfg.StepSize}))
		if err := m.MoveToPose(ctx, "descend step", lower); err != nil {
			return steps, err
		}
		steps++
	}

	m.recorder.ObserveDescentSteps(steps)
	if err := m.gripper.Command(ctx, gripper.CommandClose); err != nil {
		return steps, errors.Wrap(err, "closing gripper")
	}
	return steps, nil
}
