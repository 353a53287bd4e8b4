package ros

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/services/perception"
)

const recorded = `{"meta":{"secs":1650000000,"nsecs":500000000},"data":{"header":{"seq":7,` +
	`"stamp":{"secs":1650000000,"nsecs":0},"frame_id":"camera_depth_optical_frame"},` +
	`"grasps":[{"surface":{"x":0.1,"y":-0.02,"z":0.55},"approach":{"x":0,"y":0,"z":1},` +
	`"axis":{"x":1,"y":0,"z":0},"score":0.93},{"surface":{"x":0.12,"y":0.01,"z":0.56},` +
	`"approach":{"x":0,"y":0,"z":1},"axis":{"x":0,"y":1,"z":0},"score":0.41}]}}`

func TestDecodeGraspList(t *testing.T) {
	msg, err := DecodeGraspList(json.RawMessage(recorded))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, msg.Data.Header.Seq, test.ShouldEqual, 7)
	test.That(t, msg.Meta.Nsecs, test.ShouldEqual, 500000000)

	out := msg.Perception()
	test.That(t, out.Frame, test.ShouldEqual, "camera_depth_optical_frame")
	candidates := out.Candidates()
	test.That(t, candidates, test.ShouldHaveLength, 2)
	test.That(t, candidates[0].Score, test.ShouldEqual, 0.93)
	test.That(t, candidates[0].Surface.Z, test.ShouldEqual, 0.55)
	test.That(t, candidates[1].Axis.Y, test.ShouldEqual, 1)

	_, err = DecodeGraspList(json.RawMessage(`{"data": 3}`))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReplay(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()
	first, err := DecodeGraspList(json.RawMessage(recorded))
	test.That(t, err, test.ShouldBeNil)
	second := first
	second.Meta.Secs++

	var received []perception.Message
	test.That(t, bus.SubscribeJSON(lb, "grasps", logger, func(m perception.Message) {
		received = append(received, m)
	}), test.ShouldBeNil)

	test.That(t, Replay(context.Background(), lb, "grasps", []GraspListMessage{first, second}, 0, clock.NewMock(), logger),
		test.ShouldBeNil)
	test.That(t, received, test.ShouldHaveLength, 2)
	test.That(t, received[1].Grasps, test.ShouldHaveLength, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Replay(ctx, lb, "grasps", []GraspListMessage{first, second}, 1, clock.NewMock(), logger)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, received, test.ShouldHaveLength, 3)
}
