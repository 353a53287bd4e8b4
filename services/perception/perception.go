// Package perception receives candidate grasps from the external grasp-detection process and decides
// when a complete reading is available.
package perception

import (
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/graspexec/spatialmath"
)

// Candidate is one scored grasp proposal. Approach and Axis are carried through but not used to build poses.
type Candidate struct {
	Score    float64
	Surface  r3.Vector
	Approach *r3.Vector
	Axis     *r3.Vector
}

// Batch is the set of candidates from one perception message, in arrival order.
type Batch struct {
	Seq        uint64
	Frame      string
	Candidates []Candidate
	ReceivedAt time.Time
}

// Copy returns a batch whose candidate slice does not alias b's.
func (b Batch) Copy() Batch {
	out := b
	out.Candidates = append([]Candidate(nil), b.Candidates...)
	return out
}

// Message is the wire form of a batch on the grasps subject.
type Message struct {
	Frame  string         `json:"frame"`
	Grasps []GraspMessage `json:"grasps"`
}

// GraspMessage is the wire form of one candidate.
type GraspMessage struct {
	Score    float64              `json:"score"`
	Surface  spatialmath.Vector3  `json:"surface"`
	Approach *spatialmath.Vector3 `json:"approach,omitempty"`
	Axis     *spatialmath.Vector3 `json:"axis,omitempty"`
}

// Candidates converts the wire grasps, preserving order.
func (m Message) Candidates() []Candidate {
	out := make([]Candidate, 0, len(m.Grasps))
	for _, g := range m.Grasps {
		c := Candidate{Score: g.Score, Surface: g.Surface.R3()}
		if g.Approach != nil {
			v := g.Approach.R3()
			c.Approach = &v
		}
		if g.Axis != nil {
			v := g.Axis.R3()
			c.Axis = &v
		}
		out = append(out, c)
	}
	return out
}

// NewMessage is the inverse of Message.Candidates.
func NewMessage(frame string, candidates []Candidate) Message {
	m := Message{Frame: frame, Grasps: make([]GraspMessage, 0, len(candidates))}
	for _, c := range candidates {
		g := GraspMessage{Score: c.Score, Surface: spatialmath.NewVector3(c.Surface)}
		if c.Approach != nil {
			v := spatialmath.NewVector3(*c.Approach)
			g.Approach = &v
		}
		if c.Axis != nil {
			v := spatialmath.NewVector3(*c.Axis)
			g.Axis = &v
		}
		m.Grasps = append(m.Grasps, g)
	}
	return m
}
