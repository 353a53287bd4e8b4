package inject

import (
	"context"

	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/motion"
)

// MotionService represents a fake instance of a motion service.
type MotionService struct {
	motion.Service
	PlanFunc        func(ctx context.Context, req motion.PlanRequest) (*motion.Plan, error)
	ExecuteFunc     func(ctx context.Context, plan *motion.Plan) error
	StopFunc        func(ctx context.Context) error
	CurrentPoseFunc func(ctx context.Context) (referenceframe.PoseInFrame, error)
}

// Plan calls the injected Plan or the real variant.
func (mgs *MotionService) Plan(ctx context.Context, req motion.PlanRequest) (*motion.Plan, error) {
	if mgs.PlanFunc == nil {
		return mgs.Service.Plan(ctx, req)
	}
	return mgs.PlanFunc(ctx, req)
}

// Execute calls the injected Execute or the real variant.
func (mgs *MotionService) Execute(ctx context.Context, plan *motion.Plan) error {
	if mgs.ExecuteFunc == nil {
		return mgs.Service.Execute(ctx, plan)
	}
	return mgs.ExecuteFunc(ctx, plan)
}

// Stop calls the injected Stop or the real variant.
func (mgs *MotionService) Stop(ctx context.Context) error {
	if mgs.StopFunc == nil {
		return mgs.Service.Stop(ctx)
	}
	return mgs.StopFunc(ctx)
}

// CurrentPose calls the injected CurrentPose or the real variant.
func (mgs *MotionService) CurrentPose(ctx context.Context) (referenceframe.PoseInFrame, error) {
	if mgs.CurrentPoseFunc == nil {
		return mgs.Service.CurrentPose(ctx)
	}
	return mgs.CurrentPoseFunc(ctx)
}
