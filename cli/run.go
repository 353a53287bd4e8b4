package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"golang.org/x/sync/errgroup"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/components/forcetorque"
	"go.viam.com/graspexec/components/gripper"
	"go.viam.com/graspexec/config"
	"go.viam.com/graspexec/confirm"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/metrics"
	"go.viam.com/graspexec/robot"
	"go.viam.com/graspexec/services/frametransform"
	"go.viam.com/graspexec/services/graspselect"
	"go.viam.com/graspexec/services/motion"
	"go.viam.com/graspexec/services/perception"
	"go.viam.com/graspexec/services/pickplace"
	"go.viam.com/graspexec/utils"
)

// RunAction is the corresponding Action for 'run'.
func RunAction(c *cli.Context) error {
	logger := newLogger(c, "graspexec")
	defer goutils.UncheckedErrorFunc(logger.Sync)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool(flagAutoConfirm) {
		cfg.Confirm.Mode = config.ConfirmAuto
	}

	b, err := bus.Connect(cfg.NATSURL, logger.Sublogger("bus"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil {
			logger.Warnw("error closing bus", "error", closeErr)
		}
	}()

	reg := prom.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Port > 0 {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	executor, err := newExecutor(cfg, b, recorder, clock.New(), logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(c.Context)
	if cfg.Metrics.Port > 0 {
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           metrics.HTTPHandler(reg, logger.Sublogger("metrics")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Infow("serving metrics", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		return executor.Run(ctx)
	})
	return g.Wait()
}

// newExecutor wires every component of the executor onto b.
func newExecutor(
	cfg *config.Config,
	b bus.Bus,
	recorder metrics.Recorder,
	clk clock.Clock,
	logger logging.Logger,
) (*robot.Executor, error) {
	home, errHome := cfg.Joints.Configuration(cfg.Joints.Home)
	view, errView := cfg.Joints.Configuration(cfg.Joints.View)
	drop, errDrop := cfg.Joints.Configuration(cfg.Joints.Drop)
	if err := multierr.Combine(errHome, errView, errDrop); err != nil {
		return nil, err
	}

	g, err := gripper.NewBusGripper(b, gripper.Subjects{
		Command: cfg.Subjects.GripperCommand,
		Status:  cfg.Subjects.GripperStatus,
	}, logger.Sublogger("gripper"))
	if err != nil {
		return nil, err
	}
	sensor, err := forcetorque.NewBusSensor(b, cfg.Subjects.Wrench, logger.Sublogger("forcetorque"))
	if err != nil {
		return nil, err
	}

	planner := motion.NewClient(b, motion.Subjects{
		Plan:        cfg.Subjects.Plan,
		Execute:     cfg.Subjects.Execute,
		Stop:        cfg.Subjects.Stop,
		CurrentPose: cfg.Subjects.CurrentPose,
	}, cfg.Planning.Timeout, logger.Sublogger("motion"))

	var transformer frametransform.Service
	if cfg.Transform.Static != nil {
		transformer = &frametransform.Static{
			Src:       cfg.Frames.Sensor,
			Dst:       cfg.Frames.Base,
			Extrinsic: cfg.Transform.Static.Pose(),
		}
	} else {
		transformer = frametransform.NewClient(b, cfg.Subjects.Transform, cfg.Transform.Timeout,
			cfg.Transform.RetryInterval, clk, logger.Sublogger("frametransform"))
	}

	gate := perception.NewGate(perception.GateConfig{
		DefaultFrame:     cfg.Frames.Sensor,
		PollInterval:     cfg.Perception.PollInterval,
		LivenessInterval: cfg.Perception.LivenessInterval,
		ReadyTimeout:     cfg.Perception.ReadyTimeout,
	}, perception.NewManagedProcess(perception.ProcessConfig{
		Command: cfg.Perception.Command,
		Args:    cfg.Perception.Args,
		CWD:     cfg.Perception.CWD,
	}, logger.Sublogger("perception.process")), clk, logger.Sublogger("perception"))
	if err := gate.Subscribe(b, cfg.Subjects.Grasps); err != nil {
		return nil, err
	}

	corners := make([]graspselect.Corner, 0, len(cfg.Grasp.Corners))
	for _, c := range cfg.Grasp.Corners {
		corners = append(corners, graspselect.Corner{X: c.X, Y: c.Y})
	}
	evaluator := graspselect.NewEvaluator(graspselect.Config{
		SensorFrame:    cfg.Frames.Sensor,
		BaseFrame:      cfg.Frames.Base,
		Corners:        corners,
		Pitch:          utils.DegToRad(cfg.Grasp.PitchDegrees),
		OffsetDistance: cfg.Grasp.OffsetDistance,
		Start:          home,
	}, transformer, graspselect.NewChecker(planner, logger.Sublogger("reachability")),
		graspselect.NewBusPoseDisplayer(b, cfg.Subjects.DisplayPoses), recorder, logger.Sublogger("graspselect"))

	var decider confirm.Decider = confirm.Prompt{}
	if cfg.Confirm.Mode == config.ConfirmAuto {
		decider = confirm.AlwaysExecute{}
	}
	confirmGate := confirm.NewGate(decider, confirm.NewBusDisplayer(b, cfg.Subjects.DisplayTrajectory),
		logger.Sublogger("confirm"))

	machine := pickplace.NewMachine(pickplace.Config{
		Home:            home,
		View:            view,
		Drop:            drop,
		ForceThreshold:  cfg.Force.Threshold,
		StepSize:        cfg.Force.Step,
		MaxDescentSteps: cfg.Force.MaxSteps,
		LiftDistance:    cfg.Lift.Distance,
		LiftPause:       cfg.Lift.Pause,
	}, planner, confirmGate, g, sensor, clk, recorder, logger.Sublogger("pickplace"))

	return robot.NewExecutor(robot.Config{
		Home:          home,
		View:          view,
		ConnectPoll:   cfg.Gripper.ConnectPoll,
		CommandPause:  cfg.Gripper.CommandPause,
		CycleInterval: cfg.Cycle.Interval,
	}, g, gate, evaluator, machine, clk, recorder, logger), nil
}
