package inject

import (
	"context"

	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/frametransform"
)

// FrameTransformService is an injected frame transform service.
type FrameTransformService struct {
	frametransform.Service
	TransformFunc func(ctx context.Context, pose referenceframe.PoseInFrame, dst string) (referenceframe.PoseInFrame, error)
}

// Transform calls the injected Transform or the real version.
func (fts *FrameTransformService) Transform(
	ctx context.Context,
	pose referenceframe.PoseInFrame,
	dst string,
) (referenceframe.PoseInFrame, error) {
	if fts.TransformFunc == nil {
		return fts.Service.Transform(ctx, pose, dst)
	}
	return fts.TransformFunc(ctx, pose, dst)
}
