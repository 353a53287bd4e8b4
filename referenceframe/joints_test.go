package referenceframe

import (
	"testing"

	"go.viam.com/test"
)

func TestNewJointConfiguration(t *testing.T) {
	positions := []float64{0.003, -1.57, -1.40, -1.74, 1.60, 0.03}
	jc, err := NewJointConfiguration(DefaultJointNames, positions)
	test.That(t, err, test.ShouldBeNil)

	positions[0] = 99
	test.That(t, jc.Positions[0], test.ShouldEqual, 0.003)

	elbow, ok := jc.Position("elbow_joint")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, elbow, test.ShouldEqual, -1.40)

	_, ok = jc.Position("gripper_joint")
	test.That(t, ok, test.ShouldBeFalse)

	_, err = NewJointConfiguration(DefaultJointNames, []float64{1, 2, 3})
	test.That(t, err, test.ShouldBeError, NewIncorrectDoFError(3, ArmDoF))
}
