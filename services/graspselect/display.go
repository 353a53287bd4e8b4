package graspselect

import (
	"context"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/spatialmath"
)

// A PoseDisplayer shows the poses an evaluation tried.
type PoseDisplayer interface {
	DisplayPoses(ctx context.Context, frame string, poses []spatialmath.Pose) error
}

type poseArrayMessage struct {
	Frame string             `json:"frame"`
	Poses []spatialmath.Pose `json:"poses"`
}

// BusPoseDisplayer publishes pose arrays for visualization.
type BusPoseDisplayer struct {
	pub     bus.Publisher
	subject string
}

// NewBusPoseDisplayer returns a displayer publishing on subject.
func NewBusPoseDisplayer(pub bus.Publisher, subject string) *BusPoseDisplayer {
	return &BusPoseDisplayer{pub: pub, subject: subject}
}

// DisplayPoses implements PoseDisplayer.
func (d *BusPoseDisplayer) DisplayPoses(ctx context.Context, frame string, poses []spatialmath.Pose) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if poses == nil {
		poses = []spatialmath.Pose{}
	}
	return d.pub.Publish(d.subject, poseArrayMessage{Frame: frame, Poses: poses})
}

func posesOf(in []referenceframe.PoseInFrame) []spatialmath.Pose {
	out := make([]spatialmath.Pose, 0, len(in))
	for _, p := range in {
		out = append(out, p.Pose)
	}
	return out
}
