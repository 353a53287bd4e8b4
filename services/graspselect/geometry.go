package graspselect

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/graspexec/spatialmath"
)

// Corner is a fixed workspace landmark on the base-frame x/y plane.
type Corner struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c Corner) vector() r3.Vector {
	return r3.Vector{X: c.X, Y: c.Y}
}

// NearestCorner returns the index of the corner closest to p on the x/y plane. On a tie the lowest
// index wins.
func NearestCorner(p r3.Vector, corners []Corner) (int, error) {
	if len(corners) == 0 {
		return -1, NewConfigurationError("no reference corners configured")
	}
	flat := r3.Vector{X: p.X, Y: p.Y}
	best, bestDist := 0, math.Inf(1)
	for i, c := range corners {
		if d := flat.Distance(c.vector()); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

// ApproachOrientation points the gripper from p toward corner: yaw about z toward the corner, the given
// pitch, no roll.
func ApproachOrientation(p r3.Vector, corner Corner, pitch float64) quat.Number {
	yaw := math.Atan2(corner.Y-p.Y, corner.X-p.X)
	return (&spatialmath.EulerAngles{Roll: 0, Pitch: pitch, Yaw: yaw}).Quaternion()
}

// OffsetPoint retreats p by distance away from corner on the x/y plane, keeping its height. It returns
// false when p sits on the corner and there is no direction to retreat along.
func OffsetPoint(p r3.Vector, corner Corner, distance float64) (r3.Vector, bool) {
	dir := r3.Vector{X: corner.X - p.X, Y: corner.Y - p.Y}
	norm := dir.Norm()
	if norm < 1e-9 {
		return r3.Vector{}, false
	}
	unit := dir.Mul(1 / norm)
	return r3.Vector{X: p.X - distance*unit.X, Y: p.Y - distance*unit.Y, Z: p.Z}, true
}
