package pickplace_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/graspexec/components/forcetorque"
	"go.viam.com/graspexec/components/gripper"
	"go.viam.com/graspexec/confirm"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/graspselect"
	"go.viam.com/graspexec/services/motion"
	"go.viam.com/graspexec/services/pickplace"
	"go.viam.com/graspexec/spatialmath"
	"go.viam.com/graspexec/testutils/inject"
)

func joints(t *testing.T, v float64) referenceframe.JointConfiguration {
	t.Helper()
	jc, err := referenceframe.NewJointConfiguration(referenceframe.DefaultJointNames, []float64{v, v, v, v, v, v})
	test.That(t, err, test.ShouldBeNil)
	return jc
}

// fakeArm executes plans instantly and remembers where it ended up.
type fakeArm struct {
	current  referenceframe.PoseInFrame
	executed []string
	stops    int
	failOn   string
	service  *inject.MotionService
}

func newFakeArm() *fakeArm {
	a := &fakeArm{current: referenceframe.NewPoseInFrame("base_link", spatialmath.NewPoseFromPoint(r3.Vector{Z: 0.6}))}
	a.service = &inject.MotionService{
		PlanFunc: func(ctx context.Context, req motion.PlanRequest) (*motion.Plan, error) {
			return &motion.Plan{ID: req.Target.String(), Target: req.Target, Waypoints: []motion.Waypoint{{}}}, nil
		},
		ExecuteFunc: func(ctx context.Context, plan *motion.Plan) error {
			if a.failOn != "" && len(a.executed) > 0 && a.executed[len(a.executed)-1] == a.failOn {
				return errors.New("protective stop")
			}
			if plan.Target.Pose != nil {
				a.current = *plan.Target.Pose
			}
			a.executed = append(a.executed, plan.ID)
			return nil
		},
		StopFunc: func(ctx context.Context) error {
			a.stops++
			return nil
		},
		CurrentPoseFunc: func(ctx context.Context) (referenceframe.PoseInFrame, error) {
			return a.current, nil
		},
	}
	return a
}

// forceFeed reads out forces in order, repeating the last one.
func forceFeed(forces ...float64) *inject.ForceTorqueSensor {
	i := 0
	return &inject.ForceTorqueSensor{
		WrenchFunc: func(ctx context.Context) (forcetorque.Wrench, error) {
			f := forces[i]
			if i < len(forces)-1 {
				i++
			}
			return forcetorque.Wrench{Force: r3.Vector{Z: f}}, nil
		},
	}
}

type fakeGripper struct {
	commands []gripper.Command
	status   gripper.Status
	injected *inject.Gripper
}

func newFakeGripper(status gripper.ObjectStatus) *fakeGripper {
	g := &fakeGripper{status: gripper.Status{Object: status, Activated: true}}
	g.injected = &inject.Gripper{
		CommandFunc: func(ctx context.Context, cmd gripper.Command) error {
			g.commands = append(g.commands, cmd)
			return nil
		},
		StatusFunc: func() (gripper.Status, bool) { return g.status, true },
	}
	return g
}

type harness struct {
	machine *pickplace.Machine
	arm     *fakeArm
	gripper *fakeGripper
	decider *confirm.Scripted
	target  *graspselect.Target
}

func newHarness(t *testing.T, status gripper.ObjectStatus, sensor forcetorque.Sensor) *harness {
	logger := logging.NewTestLogger(t)
	h := &harness{arm: newFakeArm(), gripper: newFakeGripper(status), decider: confirm.NewScripted()}
	cfg := pickplace.Config{
		Home:            joints(t, 0),
		View:            joints(t, 1),
		Drop:            joints(t, 2),
		ForceThreshold:  1,
		StepSize:        0.01,
		MaxDescentSteps: 30,
		LiftDistance:    0.05,
		LiftPause:       time.Millisecond,
	}
	gate := confirm.NewGate(h.decider, nil, logger)
	h.machine = pickplace.NewMachine(cfg, h.arm.service, gate, h.gripper.injected, sensor, clock.New(), nil, logger)

	final := referenceframe.NewPoseInFrame("base_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.4, Z: 0.2}))
	offset := referenceframe.NewPoseInFrame("base_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5, Z: 0.2}))
	h.target = &graspselect.Target{
		Final:  final,
		Offset: offset,
		OffsetPlan: &motion.Plan{
			ID:        "offset-plan",
			Target:    motion.PoseTarget(offset),
			Waypoints: []motion.Waypoint{{}},
		},
	}
	return h
}

func (h *harness) motions() []string {
	var names []string
	for _, p := range h.decider.Asked() {
		names = append(names, p.Description)
	}
	return names
}

func TestExecutionStateOnlyMovesForward(t *testing.T) {
	test.That(t, pickplace.FirstGrab.Next(), test.ShouldEqual, pickplace.SecondGrab)
	test.That(t, pickplace.SecondGrab.Next(), test.ShouldEqual, pickplace.Finished)
	test.That(t, pickplace.Finished.Next(), test.ShouldEqual, pickplace.Finished)
	for _, s := range []pickplace.ExecutionState{pickplace.FirstGrab, pickplace.SecondGrab, pickplace.Finished} {
		test.That(t, s.Next() >= s, test.ShouldBeTrue)
		test.That(t, s.Next(), test.ShouldNotEqual, pickplace.FirstGrab)
	}
	test.That(t, pickplace.SecondGrab.String(), test.ShouldEqual, "SECOND_GRAB")
}

func TestRunCycleDetectedAtClosed(t *testing.T) {
	h := newHarness(t, gripper.ObjectDetectedClosing, forceFeed(0.2, 0.3, 1.5))

	outcome, err := h.machine.RunCycle(context.Background(), h.target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, pickplace.OutcomeGrabbed)
	test.That(t, h.machine.State(), test.ShouldEqual, pickplace.SecondGrab)

	test.That(t, h.motions(), test.ShouldResemble, []string{
		"home", "approach", "descend", "descend step", "descend step", "lift",
		"home", "drop", "home", "view",
	})
	test.That(t, h.gripper.commands, test.ShouldResemble, []gripper.Command{gripper.CommandClose, gripper.CommandOpen})
	test.That(t, h.arm.executed[1], test.ShouldEqual, "offset-plan")
	test.That(t, h.arm.stops, test.ShouldEqual, len(h.arm.executed))
}

func TestRunCycleMissed(t *testing.T) {
	h := newHarness(t, gripper.ObjectMissed, forceFeed(2))

	outcome, err := h.machine.RunCycle(context.Background(), h.target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, pickplace.OutcomeMissed)
	test.That(t, h.machine.State(), test.ShouldEqual, pickplace.FirstGrab)
	test.That(t, h.motions(), test.ShouldResemble, []string{"home", "approach", "descend", "lift", "home", "view"})
	test.That(t, h.gripper.commands, test.ShouldResemble, []gripper.Command{gripper.CommandClose})
}

func TestRunCycleToFinished(t *testing.T) {
	h := newHarness(t, gripper.ObjectDetectedClosing, forceFeed(2))

	for _, want := range []pickplace.ExecutionState{pickplace.SecondGrab, pickplace.Finished} {
		outcome, err := h.machine.RunCycle(context.Background(), h.target)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, outcome, test.ShouldEqual, pickplace.OutcomeGrabbed)
		test.That(t, h.machine.State(), test.ShouldEqual, want)
	}

	executed := len(h.arm.executed)
	outcome, err := h.machine.RunCycle(context.Background(), h.target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome, test.ShouldEqual, pickplace.OutcomeIdle)
	test.That(t, h.arm.executed, test.ShouldHaveLength, executed)
	test.That(t, h.machine.State(), test.ShouldEqual, pickplace.Finished)
}

func TestRunCycleMotionFailureKeepsState(t *testing.T) {
	h := newHarness(t, gripper.ObjectDetectedClosing, forceFeed(2))
	h.arm.failOn = "offset-plan"

	_, err := h.machine.RunCycle(context.Background(), h.target)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "executing descend")
	test.That(t, h.machine.State(), test.ShouldEqual, pickplace.FirstGrab)
	test.That(t, h.gripper.commands, test.ShouldBeEmpty)
}

func TestRunCycleRedisplay(t *testing.T) {
	h := newHarness(t, gripper.ObjectMissed, forceFeed(2))
	h.decider = confirm.NewScripted(confirm.Redisplay, confirm.Redisplay)
	logger := logging.NewTestLogger(t)
	h.machine = pickplace.NewMachine(pickplace.Config{
		Home: joints(t, 0), View: joints(t, 1), Drop: joints(t, 2), ForceThreshold: 1, StepSize: 0.01,
	}, h.arm.service, confirm.NewGate(h.decider, nil, logger), h.gripper.injected, forceFeed(2), clock.New(), nil, logger)

	_, err := h.machine.RunCycle(context.Background(), h.target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.motions()[:3], test.ShouldResemble, []string{"home", "home", "home"})
	test.That(t, h.arm.executed[0], test.ShouldContainSubstring, "joints")
	test.That(t, h.arm.executed, test.ShouldHaveLength, 6)
}

func TestForceClose(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		forces := make([]float64, 0, n+1)
		for i := 0; i < n; i++ {
			forces = append(forces, 0.5)
		}
		forces = append(forces, 1.01)
		h := newHarness(t, gripper.ObjectDetectedClosing, forceFeed(forces...))

		start := h.arm.current.Pose.Point().Z
		steps, err := h.machine.ForceClose(context.Background())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, steps, test.ShouldEqual, n)
		test.That(t, h.arm.executed, test.ShouldHaveLength, n)
		test.That(t, h.gripper.commands, test.ShouldResemble, []gripper.Command{gripper.CommandClose})
		test.That(t, h.arm.current.Pose.Point().Z, test.ShouldAlmostEqual, start-0.01*float64(n))
	}

	t.Run("threshold itself does not count as contact", func(t *testing.T) {
		h := newHarness(t, gripper.ObjectDetectedClosing, forceFeed(1, 1, 3))
		steps, err := h.machine.ForceClose(context.Background())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, steps, test.ShouldEqual, 2)
	})

	t.Run("step ceiling", func(t *testing.T) {
		h := newHarness(t, gripper.ObjectDetectedClosing, forceFeed(0))
		steps, err := h.machine.ForceClose(context.Background())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, steps, test.ShouldEqual, 30)
		test.That(t, h.gripper.commands, test.ShouldResemble, []gripper.Command{gripper.CommandClose})
	})

	t.Run("no reading", func(t *testing.T) {
		h := newHarness(t, gripper.ObjectDetectedClosing, &inject.ForceTorqueSensor{
			WrenchFunc: func(context.Context) (forcetorque.Wrench, error) {
				return forcetorque.Wrench{}, forcetorque.ErrNoReading
			},
		})
		_, err := h.machine.ForceClose(context.Background())
		test.That(t, errors.Is(err, forcetorque.ErrNoReading), test.ShouldBeTrue)
		test.That(t, h.gripper.commands, test.ShouldBeEmpty)
	})
}
