package ros

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/graspexec/services/perception"
	"go.viam.com/graspexec/spatialmath"
)

// Stamp is a ROS time.
type Stamp struct {
	Secs  int64
	Nsecs int64
}

// Time converts the stamp.
func (s Stamp) Time() time.Time {
	return time.Unix(s.Secs, s.Nsecs)
}

// GraspListMessage is a recorded grasp-list message as decoded from a bag.
type GraspListMessage struct {
	Meta Stamp
	Data struct {
		Header struct {
			Seq     int
			Stamp   Stamp
			FrameID string `json:"frame_id"`
		}
		Grasps []struct {
			Surface  spatialmath.Vector3
			Approach spatialmath.Vector3
			Axis     spatialmath.Vector3
			Score    float64
		}
	}
}

// DecodeGraspList decodes one message from AllMessagesForTopic.
func DecodeGraspList(data json.RawMessage) (GraspListMessage, error) {
	var msg GraspListMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return GraspListMessage{}, errors.Wrap(err, "decoding grasp list")
	}
	return msg, nil
}

// Perception converts the recorded grasps into the bus message the perception gate consumes.
func (m GraspListMessage) Perception() perception.Message {
	out := perception.Message{
		Frame:  m.Data.Header.FrameID,
		Grasps: make([]perception.GraspMessage, 0, len(m.Data.Grasps)),
	}
	for _, g := range m.Data.Grasps {
		approach, axis := g.Approach, g.Axis
		out.Grasps = append(out.Grasps, perception.GraspMessage{
			Score:    g.Score,
			Surface:  g.Surface,
			Approach: &approach,
			Axis:     &axis,
		})
	}
	return out
}
