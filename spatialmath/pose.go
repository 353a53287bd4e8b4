// Package spatialmath defines poses and orientations in 3-D space.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a position and orientation in 3-D space. Poses are passed by value; every operation
// returns a new Pose.
type Pose struct {
	point       r3.Vector
	orientation quat.Number
}

// NewPose returns a pose at the given point with the given orientation, normalized to a unit quaternion.
func NewPose(point r3.Vector, orientation quat.Number) Pose {
	return Pose{point: point, orientation: Normalize(orientation)}
}

// NewPoseFromPoint returns a pose at the given point with no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return Pose{point: point, orientation: IdentityQuaternion()}
}

// NewZeroPose returns the pose at the origin with no rotation.
func NewZeroPose() Pose {
	return NewPoseFromPoint(r3.Vector{})
}

// Point returns the position of the pose.
func (p Pose) Point() r3.Vector {
	return p.point
}

// Orientation returns the orientation of the pose. The zero Pose reports no rotation.
func (p Pose) Orientation() quat.Number {
	if p.orientation == (quat.Number{}) {
		return IdentityQuaternion()
	}
	return p.orientation
}

// WithPoint returns a copy of the pose moved to point.
func (p Pose) WithPoint(point r3.Vector) Pose {
	return Pose{point: point, orientation: p.Orientation()}
}

// WithOrientation returns a copy of the pose rotated to orientation.
func (p Pose) WithOrientation(orientation quat.Number) Pose {
	return NewPose(p.point, orientation)
}

// Translate returns a copy of the pose displaced by delta, expressed in the parent frame.
func (p Pose) Translate(delta r3.Vector) Pose {
	return Pose{point: p.point.Add(delta), orientation: p.Orientation()}
}

func (p Pose) String() string {
	q := p.Orientation()
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f W:%.4f I:%.4f J:%.4f K:%.4f}",
		p.point.X, p.point.Y, p.point.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}

// Compose returns the pose b expressed in the parent frame of a, where b is given relative to a.
func Compose(a, b Pose) Pose {
	return Pose{
		point:       a.point.Add(RotateVector(a.Orientation(), b.point)),
		orientation: Normalize(quat.Mul(a.Orientation(), b.Orientation())),
	}
}

// PoseInverse returns the pose that undoes p.
func PoseInverse(p Pose) Pose {
	inv := quat.Conj(p.Orientation())
	return Pose{point: RotateVector(inv, p.point).Mul(-1), orientation: inv}
}

// PoseAlmostEqual reports whether two poses are within 1e-6 in position and 1e-5 in orientation.
func PoseAlmostEqual(a, b Pose) bool {
	return R3VectorAlmostEqual(a.point, b.point, 1e-6) && QuaternionAlmostEqual(a.Orientation(), b.Orientation(), 1e-5)
}

// R3VectorAlmostEqual compares two vectors component-wise within tol.
func R3VectorAlmostEqual(a, b r3.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
