// Package referenceframe tags poses with the frame they were observed in and defines the arm's fixed
// joint configurations.
package referenceframe

import (
	"fmt"

	"go.viam.com/graspexec/spatialmath"
)

// PoseInFrame packages a pose with the name of the frame in which it was observed.
type PoseInFrame struct {
	Frame string           `json:"frame"`
	Pose  spatialmath.Pose `json:"pose"`
}

// NewPoseInFrame generates a new PoseInFrame.
func NewPoseInFrame(frame string, pose spatialmath.Pose) PoseInFrame {
	return PoseInFrame{Frame: frame, Pose: pose}
}

// FrameName returns the name of the frame in which the pose was observed.
func (pF PoseInFrame) FrameName() string {
	return pF.Frame
}

// AlmostEqual reports whether both poses are in the same frame and almost equal.
func (pF PoseInFrame) AlmostEqual(other PoseInFrame) bool {
	return pF.Frame == other.Frame && spatialmath.PoseAlmostEqual(pF.Pose, other.Pose)
}

func (pF PoseInFrame) String() string {
	return fmt.Sprintf("%s@%s", pF.Pose.String(), pF.Frame)
}
