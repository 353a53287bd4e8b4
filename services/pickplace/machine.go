// Package pickplace drives the arm and gripper through pick-and-place cycles: approach a selected grasp,
// descend under force feedback, close, lift, and either place the object or return to try again.
package pickplace

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/components/forcetorque"
	"go.viam.com/graspexec/components/gripper"
	"go.viam.com/graspexec/confirm"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/metrics"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/graspselect"
	"go.viam.com/graspexec/services/motion"
	"go.viam.com/graspexec/utils"
)

// Config holds the fixed motions and thresholds of a cycle.
type Config struct {
	Home referenceframe.JointConfiguration
	View referenceframe.JointConfiguration
	Drop referenceframe.JointConfiguration

	ForceThreshold  float64
	StepSize        float64
	MaxDescentSteps int

	LiftDistance float64
	LiftPause    time.Duration
}

// A Confirmer approves a planned motion before it runs.
type Confirmer interface {
	Confirm(ctx context.Context, p confirm.Proposal) error
}

// Machine is the pick-place state machine. RunCycle must not be called concurrently.
type Machine struct {
	cfg      Config
	planner  motion.Service
	gate     Confirmer
	gripper  gripper.Gripper
	sensor   forcetorque.Sensor
	clk      clock.Clock
	recorder metrics.Recorder
	logger   logging.Logger

	mu    sync.Mutex
	state ExecutionState
}

// NewMachine returns a machine in FirstGrab.
func NewMachine(
	cfg Config,
	planner motion.Service,
	gate Confirmer,
	g gripper.Gripper,
	sensor forcetorque.Sensor,
	clk clock.Clock,
	recorder metrics.Recorder,
	logger logging.Logger,
) *Machine {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Machine{
		cfg:      cfg,
		planner:  planner,
		gate:     gate,
		gripper:  g,
		sensor:   sensor,
		clk:      clk,
		recorder: recorder,
		logger:   logger,
	}
}

// State returns the current phase.
func (m *Machine) State() ExecutionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) advance() ExecutionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = m.state.Next()
	m.recorder.SetExecutionState(int(m.state))
	return m.state
}

// RunCycle attempts one grab of target. A motion failure aborts the cycle and leaves the state unchanged.
func (m *Machine) RunCycle(ctx context.Context, target *graspselect.Target) (Outcome, error) {
	state := m.State()
	if state == Finished {
		return OutcomeIdle, nil
	}
	if target == nil {
		return OutcomeIdle, errors.New("no grasp target to execute")
	}
	logger := m.logger.Sublogger(state.String())

	if err := m.MoveToJoints(ctx, "home", m.cfg.Home); err != nil {
		return OutcomeIdle, err
	}
	if err := m.executePlan(ctx, "approach", target.OffsetPlan); err != nil {
		return OutcomeIdle, err
	}
	if err := m.MoveToPose(ctx, "descend", target.Final); err != nil {
		return OutcomeIdle, err
	}
	steps, err := m.ForceClose(ctx)
	if err != nil {
		return OutcomeIdle, err
	}
	logger.Infow("gripper closed", "descent_steps", steps)

	if err := m.lift(ctx); err != nil {
		return OutcomeIdle, err
	}
	if !utils.SelectClockOrWait(ctx, m.clk, m.cfg.LiftPause) {
		return OutcomeIdle, ctx.Err()
	}

	status, ok := m.gripper.Status()
	if !ok || status.Missed() {
		logger.Infow("object missed, returning to view", "status", status.Object.String(), "reported", ok)
		if err := m.moveAll(ctx, []namedJoints{{"home", m.cfg.Home}, {"view", m.cfg.View}}); err != nil {
			return OutcomeIdle, err
		}
		return OutcomeMissed, nil
	}

	logger.Infow("object grasped, placing", "status", status.Object.String())
	if err := m.moveAll(ctx, []namedJoints{{"home", m.cfg.Home}, {"drop", m.cfg.Drop}}); err != nil {
		return OutcomeIdle, err
	}
	if err := m.gripper.Command(ctx, gripper.CommandOpen); err != nil {
		return OutcomeIdle, errors.Wrap(err, "releasing object")
	}
	if err := m.moveAll(ctx, []namedJoints{{"home", m.cfg.Home}, {"view", m.cfg.View}}); err != nil {
		return OutcomeIdle, err
	}
	next := m.advance()
	logger.Infow("grab complete", "next", next.String())
	return OutcomeGrabbed, nil
}

func (m *Machine) lift(ctx context.Context) error {
	current, err := m.planner.CurrentPose(ctx)
	if err != nil {
		return err
	}
	lifted := referenceframe.NewPoseInFrame(current.Frame, current.Pose.Translate(r3.Vector{Z: m.cfg.LiftDistance}))
	return m.MoveToPose(ctx, "lift", lifted)
}

type namedJoints struct {
	name   string
	joints referenceframe.JointConfiguration
}

func (m *Machine) moveAll(ctx context.Context, moves []namedJoints) error {
	for _, mv := range moves {
		if err := m.MoveToJoints(ctx, mv.name, mv.joints); err != nil {
			return err
		}
	}
	return nil
}

// MoveToJoints plans from the current state to joints and runs it through the confirm gate.
func (m *Machine) MoveToJoints(ctx context.Context, name string, joints referenceframe.JointConfiguration) error {
	plan, err := m.planner.Plan(ctx, motion.PlanRequest{Target: motion.JointTarget(joints)})
	if err != nil {
		return errors.Wrapf(err, "planning %s", name)
	}
	return m.executePlan(ctx, name, plan)
}

// MoveToPose plans from the current state to pose and runs it through the confirm gate.
func (m *Machine) MoveToPose(ctx context.Context, name string, pose referenceframe.PoseInFrame) error {
	plan, err := m.planner.Plan(ctx, motion.PlanRequest{Target: motion.PoseTarget(pose)})
	if err != nil {
		return errors.Wrapf(err, "planning %s", name)
	}
	return m.executePlan(ctx, name, plan)
}

func (m *Machine) executePlan(ctx context.Context, name string, plan *motion.Plan) error {
	if plan == nil {
		return errors.Errorf("no plan for %s", name)
	}
	if err := m.gate.Confirm(ctx, confirm.Proposal{Description: name, Plan: plan}); err != nil {
		return err
	}
	if err := m.planner.Execute(ctx, plan); err != nil {
		return errors.Wrapf(err, "executing %s", name)
	}
	return errors.Wrapf(m.planner.Stop(ctx), "stopping after %s", name)
}
