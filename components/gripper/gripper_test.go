package gripper_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/components/gripper"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/testutils/inject"
)

var subjects = gripper.Subjects{Command: "gripper.command", Status: "gripper.status"}

func TestBusGripper(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()

	g, err := gripper.NewBusGripper(lb, subjects, logger)
	test.That(t, err, test.ShouldBeNil)

	_, ok := g.Status()
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, lb.Publish(subjects.Status, gripper.Status{Object: gripper.ObjectMissed, Position: 230}), test.ShouldBeNil)
	status, ok := g.Status()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, status.Missed(), test.ShouldBeTrue)
	test.That(t, status.Position, test.ShouldEqual, 230)

	test.That(t, lb.Publish(subjects.Status, gripper.Status{Object: gripper.ObjectDetectedClosing}), test.ShouldBeNil)
	status, _ = g.Status()
	test.That(t, status.Object, test.ShouldEqual, gripper.ObjectDetectedClosing)
	test.That(t, status.Missed(), test.ShouldBeFalse)

	test.That(t, g.Command(context.Background(), gripper.CommandOpen), test.ShouldBeNil)
	published := lb.Published(subjects.Command)
	test.That(t, published, test.ShouldHaveLength, 1)
	var cmd map[string]string
	test.That(t, json.Unmarshal(published[0], &cmd), test.ShouldBeNil)
	test.That(t, cmd["command"], test.ShouldEqual, "open")
}

func TestObjectStatusString(t *testing.T) {
	test.That(t, gripper.ObjectDetectedOpening.String(), test.ShouldEqual, "detected-at-open")
	test.That(t, gripper.ObjectStatus(7).String(), test.ShouldEqual, "unknown(7)")
}

func TestActivate(t *testing.T) {
	logger := logging.NewTestLogger(t)
	var commands []gripper.Command
	injected := &inject.Gripper{
		CommandFunc: func(ctx context.Context, cmd gripper.Command) error {
			commands = append(commands, cmd)
			return nil
		},
		StatusFunc: func() (gripper.Status, bool) {
			return gripper.Status{Activated: true}, true
		},
	}

	clk := clock.NewMock()
	test.That(t, gripper.WaitForConnection(context.Background(), injected, clk, time.Second, logger), test.ShouldBeNil)
	test.That(t, gripper.Activate(context.Background(), injected, clk, 0, logger), test.ShouldBeNil)
	test.That(t, commands, test.ShouldResemble, []gripper.Command{
		gripper.CommandReset, gripper.CommandActivate, gripper.CommandClose, gripper.CommandOpen,
	})
}

func TestWaitForConnectionCancelled(t *testing.T) {
	logger := logging.NewTestLogger(t)
	injected := &inject.Gripper{
		StatusFunc: func() (gripper.Status, bool) { return gripper.Status{}, false },
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := gripper.WaitForConnection(ctx, injected, clock.NewMock(), time.Second, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "waiting for gripper")
}
