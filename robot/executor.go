// Package robot runs the grasp executor: bring the gripper and arm up, then repeat detect, select and
// pick-place cycles until both grabs are done or the context ends.
package robot

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/components/gripper"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/metrics"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/services/graspselect"
	"go.viam.com/graspexec/services/perception"
	"go.viam.com/graspexec/services/pickplace"
	"go.viam.com/graspexec/utils"
)

// Config paces startup and the cycle loop.
type Config struct {
	Home          referenceframe.JointConfiguration
	View          referenceframe.JointConfiguration
	ConnectPoll   time.Duration
	CommandPause  time.Duration
	CycleInterval time.Duration
}

// Executor owns the top-level loop. It is driven from a single goroutine.
type Executor struct {
	cfg      Config
	gripper  gripper.Gripper
	detector perception.Detector
	selector graspselect.Selector
	machine  *pickplace.Machine
	clk      clock.Clock
	recorder metrics.Recorder
	logger   logging.Logger
}

// NewExecutor wires an executor.
func NewExecutor(
	cfg Config,
	g gripper.Gripper,
	detector perception.Detector,
	selector graspselect.Selector,
	machine *pickplace.Machine,
	clk clock.Clock,
	recorder metrics.Recorder,
	logger logging.Logger,
) *Executor {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Executor{
		cfg:      cfg,
		gripper:  g,
		detector: detector,
		selector: selector,
		machine:  machine,
		clk:      clk,
		recorder: recorder,
		logger:   logger,
	}
}

// Start waits for the gripper, activates it, and moves the arm home and then to the view configuration.
func (e *Executor) Start(ctx context.Context) error {
	if err := gripper.WaitForConnection(ctx, e.gripper, e.clk, e.cfg.ConnectPoll, e.logger); err != nil {
		return err
	}
	if err := gripper.Activate(ctx, e.gripper, e.clk, e.cfg.CommandPause, e.logger); err != nil {
		return err
	}
	if err := e.machine.MoveToJoints(ctx, "home", e.cfg.Home); err != nil {
		return err
	}
	return e.machine.MoveToJoints(ctx, "view", e.cfg.View)
}

// RunOnce runs one detect, select and execute cycle. Finding no target is an outcome, not an error.
func (e *Executor) RunOnce(ctx context.Context) (metrics.CycleOutcome, error) {
	if e.machine.State() == pickplace.Finished {
		return metrics.CycleIdle, nil
	}

	batch, err := e.detector.Detect(ctx)
	if err != nil {
		return metrics.CycleFailed, errors.Wrap(err, "detecting grasps")
	}
	target, _, err := e.selector.Select(ctx, batch)
	switch {
	case errors.Is(err, graspselect.ErrNoTargetFound):
		return metrics.CycleNoTarget, nil
	case err != nil:
		return metrics.CycleFailed, err
	}

	outcome, err := e.machine.RunCycle(ctx, target)
	if err != nil {
		return metrics.CycleFailed, err
	}
	switch outcome {
	case pickplace.OutcomeGrabbed:
		return metrics.CycleGrabbed, nil
	case pickplace.OutcomeMissed:
		return metrics.CycleMissed, nil
	}
	return metrics.CycleIdle, nil
}

// Run starts up and then cycles until ctx is done. Once the run is finished it idles without moving.
func (e *Executor) Run(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "startup failed")
	}
	e.recorder.SetExecutionState(int(e.machine.State()))

	for {
		if e.machine.State() == pickplace.Finished {
			e.logger.Info("Task complete")
			e.recorder.IncCycleOutcome(metrics.CycleIdle)
			<-ctx.Done()
			return nil
		}

		cycleID := uuid.NewString()
		logger := e.logger.Sublogger("cycle")
		start := e.clk.Now()
		state := e.machine.State()
		outcome, err := e.RunOnce(ctx)
		if ctx.Err() != nil {
			e.recorder.IncCycleOutcome(metrics.CycleCanceled)
			return nil
		}
		e.recorder.IncCycleOutcome(outcome)
		e.recorder.ObserveCycleDuration(e.clk.Since(start))
		if err != nil {
			logger.Errorw("cycle failed", "cycle", cycleID, "state", state.String(), "error", err)
		} else {
			logger.Infow("cycle finished", "cycle", cycleID, "state", state.String(), "outcome", string(outcome),
				"next", e.machine.State().String())
		}

		if !utils.SelectClockOrWait(ctx, e.clk, e.cfg.CycleInterval) {
			return nil
		}
	}
}
