package frametransform_test

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/frametransform"
	"go.viam.com/graspexec/spatialmath"
)

func cameraPose() referenceframe.PoseInFrame {
	return referenceframe.NewPoseInFrame("camera_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 0.5}))
}

func TestClientSameFrame(t *testing.T) {
	logger := logging.NewTestLogger(t)
	client := frametransform.NewClient(bus.NewLoopback(), "tf", time.Second, 50*time.Millisecond, clock.New(), logger)
	out, err := client.Transform(context.Background(), cameraPose(), "camera_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.AlmostEqual(cameraPose()), test.ShouldBeTrue)
}

func TestClientRetriesUntilAvailable(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()
	var calls atomic.Int32
	lb.HandleRequests("tf", func(context.Context, []byte) (interface{}, error) {
		if calls.Add(1) < 3 {
			return map[string]interface{}{"unavailable": true}, nil
		}
		out := referenceframe.NewPoseInFrame("base_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 2}))
		return map[string]interface{}{"pose": out}, nil
	})

	client := frametransform.NewClient(lb, "tf", time.Second, time.Millisecond, clock.New(), logger)
	out, err := client.Transform(context.Background(), cameraPose(), "base_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Frame, test.ShouldEqual, "base_link")
	test.That(t, out.Pose.Point().X, test.ShouldAlmostEqual, 2)
	test.That(t, calls.Load(), test.ShouldEqual, 3)
}

func TestClientTimesOut(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()
	lb.HandleRequests("tf", func(context.Context, []byte) (interface{}, error) {
		return map[string]interface{}{"unavailable": true}, nil
	})

	client := frametransform.NewClient(lb, "tf", 20*time.Millisecond, 5*time.Millisecond, clock.New(), logger)
	_, err := client.Transform(context.Background(), cameraPose(), "base_link")
	test.That(t, errors.Is(err, frametransform.ErrTransformUnavailable), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"camera_link"`)

	// nothing answering the subject at all is also unavailability
	client = frametransform.NewClient(bus.NewLoopback(), "tf", 20*time.Millisecond, 5*time.Millisecond, clock.New(), logger)
	_, err = client.Transform(context.Background(), cameraPose(), "base_link")
	test.That(t, errors.Is(err, frametransform.ErrTransformUnavailable), test.ShouldBeTrue)
}

func TestClientUnansweredRequest(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()
	lb.HandleRequests("tf", func(ctx context.Context, _ []byte) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	client := frametransform.NewClient(lb, "tf", 50*time.Millisecond, 5*time.Millisecond, clock.New(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	_, err := client.Transform(ctx, cameraPose(), "base_link")
	test.That(t, errors.Is(err, frametransform.ErrTransformUnavailable), test.ShouldBeTrue)
	test.That(t, time.Since(start) < time.Second, test.ShouldBeTrue)
	test.That(t, ctx.Err(), test.ShouldBeNil)
}

func TestClientReportedError(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()
	lb.HandleRequests("tf", func(context.Context, []byte) (interface{}, error) {
		return map[string]interface{}{"error": "unknown frame"}, nil
	})
	client := frametransform.NewClient(lb, "tf", time.Second, time.Millisecond, clock.New(), logger)
	_, err := client.Transform(context.Background(), cameraPose(), "base_link")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, frametransform.ErrTransformUnavailable), test.ShouldBeFalse)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown frame")
}

func TestStatic(t *testing.T) {
	// camera one meter above the base, yawed a quarter turn
	extrinsic := spatialmath.NewPose(
		r3.Vector{Z: 1},
		(&spatialmath.EulerAngles{Yaw: math.Pi / 2}).Quaternion(),
	)
	static := &frametransform.Static{Src: "camera_link", Dst: "base_link", Extrinsic: extrinsic}

	in := referenceframe.NewPoseInFrame("camera_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	out, err := static.Transform(context.Background(), in, "base_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Frame, test.ShouldEqual, "base_link")
	test.That(t, spatialmath.R3VectorAlmostEqual(out.Pose.Point(), r3.Vector{Y: 1, Z: 1}, 1e-9), test.ShouldBeTrue)

	back, err := static.Transform(context.Background(), out, "camera_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.AlmostEqual(in), test.ShouldBeTrue)

	_, err = static.Transform(context.Background(), in, "tool0")
	test.That(t, errors.Is(err, frametransform.ErrTransformUnavailable), test.ShouldBeTrue)
}
