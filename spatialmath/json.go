package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Vector3 is the wire form of an r3.Vector.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewVector3 converts an r3.Vector to its wire form.
func NewVector3(v r3.Vector) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// R3 converts the wire form back to an r3.Vector.
func (v Vector3) R3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// Quaternion is the wire form of a quat.Number.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type poseJSON struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// MarshalJSON encodes the pose as a position and a w/x/y/z orientation.
func (p Pose) MarshalJSON() ([]byte, error) {
	q := p.Orientation()
	return json.Marshal(poseJSON{
		Position:    NewVector3(p.point),
		Orientation: Quaternion{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag},
	})
}

// UnmarshalJSON decodes a pose written by MarshalJSON. A missing orientation decodes as no rotation.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var raw poseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o := raw.Orientation
	*p = NewPose(raw.Position.R3(), quat.Number{Real: o.W, Imag: o.X, Jmag: o.Y, Kmag: o.Z})
	return nil
}
