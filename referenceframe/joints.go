package referenceframe

import (
	"fmt"
	"strings"
)

// ArmDoF is the number of joints of the manipulator.
const ArmDoF = 6

// DefaultJointNames are the joint names of a six-axis UR arm, shoulder to wrist.
var DefaultJointNames = []string{
	"shoulder_pan_joint",
	"shoulder_lift_joint",
	"elbow_joint",
	"wrist_1_joint",
	"wrist_2_joint",
	"wrist_3_joint",
}

// JointConfiguration is an ordered set of named joint angles in radians.
type JointConfiguration struct {
	Names     []string  `json:"names"`
	Positions []float64 `json:"positions"`
}

// NewJointConfiguration pairs joint names with positions. Both must have ArmDoF entries.
func NewJointConfiguration(names []string, positions []float64) (JointConfiguration, error) {
	if len(names) != ArmDoF {
		return JointConfiguration{}, NewIncorrectDoFError(len(names), ArmDoF)
	}
	if len(positions) != ArmDoF {
		return JointConfiguration{}, NewIncorrectDoFError(len(positions), ArmDoF)
	}
	jc := JointConfiguration{
		Names:     make([]string, ArmDoF),
		Positions: make([]float64, ArmDoF),
	}
	copy(jc.Names, names)
	copy(jc.Positions, positions)
	return jc, nil
}

// Position returns the angle of the named joint.
func (jc JointConfiguration) Position(name string) (float64, bool) {
	for i, n := range jc.Names {
		if n == name {
			return jc.Positions[i], true
		}
	}
	return 0, false
}

func (jc JointConfiguration) String() string {
	parts := make([]string, len(jc.Positions))
	for i, p := range jc.Positions {
		parts[i] = fmt.Sprintf("%.4f", p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
