// Package config defines the executor's configuration: where to reach its collaborators, the fixed
// workspace geometry and arm configurations, and the thresholds of the pick-place cycle.
package config

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/spatialmath"
	"go.viam.com/graspexec/utils"
)

// Config is the full executor configuration.
type Config struct {
	NATSURL    string           `koanf:"nats_url"`
	Subjects   Subjects         `koanf:"subjects"`
	Frames     Frames           `koanf:"frames"`
	Transform  TransformConfig  `koanf:"transform"`
	Planning   PlanningConfig   `koanf:"planning"`
	Grasp      GraspConfig      `koanf:"grasp"`
	Force      ForceConfig      `koanf:"force"`
	Lift       LiftConfig       `koanf:"lift"`
	Joints     JointsConfig     `koanf:"joints"`
	Perception PerceptionConfig `koanf:"perception"`
	Gripper    GripperConfig    `koanf:"gripper"`
	Cycle      CycleConfig      `koanf:"cycle"`
	Confirm    ConfirmConfig    `koanf:"confirm"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// Subjects names every bus subject the executor uses.
type Subjects struct {
	Grasps            string `koanf:"grasps"`
	GripperCommand    string `koanf:"gripper_command"`
	GripperStatus     string `koanf:"gripper_status"`
	Wrench            string `koanf:"wrench"`
	Plan              string `koanf:"plan"`
	Execute           string `koanf:"execute"`
	Stop              string `koanf:"stop"`
	CurrentPose       string `koanf:"current_pose"`
	Transform         string `koanf:"transform"`
	DisplayTrajectory string `koanf:"display_trajectory"`
	DisplayPoses      string `koanf:"display_poses"`
}

// Frames names the sensor and base reference frames.
type Frames struct {
	Sensor string `koanf:"sensor"`
	Base   string `koanf:"base"`
}

// TransformConfig configures frame transforms. A non-nil Static replaces the transform service.
type TransformConfig struct {
	Timeout       time.Duration    `koanf:"timeout"`
	RetryInterval time.Duration    `koanf:"retry_interval"`
	Static        *StaticTransform `koanf:"static"`
}

// StaticTransform is the fixed pose of the sensor frame in the base frame.
type StaticTransform struct {
	Translation [3]float64 `koanf:"translation"`
	// RPYDegrees is roll, pitch and yaw about the static axes.
	RPYDegrees [3]float64 `koanf:"rpy_degrees"`
}

// Pose returns the extrinsic as a pose.
func (s StaticTransform) Pose() spatialmath.Pose {
	ea := &spatialmath.EulerAngles{
		Roll:  utils.DegToRad(s.RPYDegrees[0]),
		Pitch: utils.DegToRad(s.RPYDegrees[1]),
		Yaw:   utils.DegToRad(s.RPYDegrees[2]),
	}
	return spatialmath.NewPose(r3.Vector{X: s.Translation[0], Y: s.Translation[1], Z: s.Translation[2]}, ea.Quaternion())
}

// PlanningConfig bounds planning round trips.
type PlanningConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// Corner is a workspace landmark on the base x/y plane.
type Corner struct {
	X float64 `koanf:"x"`
	Y float64 `koanf:"y"`
}

// GraspConfig holds the approach geometry.
type GraspConfig struct {
	PitchDegrees   float64  `koanf:"pitch_degrees"`
	OffsetDistance float64  `koanf:"offset_distance"`
	Corners        []Corner `koanf:"corners"`
}

// ForceConfig tunes the force-controlled descent.
type ForceConfig struct {
	Threshold float64 `koanf:"threshold"`
	Step      float64 `koanf:"step"`
	MaxSteps  int     `koanf:"max_steps"`
}

// LiftConfig tunes the lift after closing.
type LiftConfig struct {
	Distance float64       `koanf:"distance"`
	Pause    time.Duration `koanf:"pause"`
}

// JointsConfig holds the fixed arm configurations, in radians, ordered as Names.
type JointsConfig struct {
	Names   []string  `koanf:"names"`
	Home    []float64 `koanf:"home"`
	View    []float64 `koanf:"view"`
	Drop    []float64 `koanf:"drop"`
	Deliver []float64 `koanf:"deliver"`
}

// PerceptionConfig describes the perception process and the readiness wait.
type PerceptionConfig struct {
	Command          string        `koanf:"command"`
	Args             []string      `koanf:"args"`
	CWD              string        `koanf:"cwd"`
	PollInterval     time.Duration `koanf:"poll_interval"`
	LivenessInterval time.Duration `koanf:"liveness_interval"`
	ReadyTimeout     time.Duration `koanf:"ready_timeout"`
}

// GripperConfig tunes gripper startup.
type GripperConfig struct {
	ConnectPoll  time.Duration `koanf:"connect_poll"`
	CommandPause time.Duration `koanf:"command_pause"`
}

// CycleConfig paces the top-level loop.
type CycleConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// ConfirmMode selects who approves motions.
type ConfirmMode string

// Confirmation modes.
const (
	ConfirmInteractive ConfirmMode = "interactive"
	ConfirmAuto        ConfirmMode = "auto"
)

// ConfirmConfig selects the confirmation mode.
type ConfirmConfig struct {
	Mode ConfirmMode `koanf:"mode"`
}

// MetricsConfig enables the metrics endpoint when Port is positive.
type MetricsConfig struct {
	Port int `koanf:"port"`
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.NATSURL == "" {
		return utils.NewConfigValidationFieldRequiredError("", "nats_url")
	}
	if c.Frames.Sensor == "" {
		return utils.NewConfigValidationFieldRequiredError("frames", "sensor")
	}
	if c.Frames.Base == "" {
		return utils.NewConfigValidationFieldRequiredError("frames", "base")
	}
	if c.Transform.Static == nil && (c.Transform.Timeout <= 0 || c.Transform.RetryInterval <= 0) {
		return utils.NewConfigValidationError("transform", errors.New("timeout and retry_interval must be positive"))
	}
	if err := c.Grasp.Validate("grasp"); err != nil {
		return err
	}
	if err := c.Force.Validate("force"); err != nil {
		return err
	}
	if err := c.Joints.Validate("joints"); err != nil {
		return err
	}
	if err := c.Perception.Validate("perception"); err != nil {
		return err
	}
	switch c.Confirm.Mode {
	case ConfirmInteractive, ConfirmAuto:
	default:
		return utils.NewConfigValidationError("confirm", errors.Errorf("unknown mode %q", c.Confirm.Mode))
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return utils.NewConfigValidationError("metrics", errors.Errorf("invalid port %d", c.Metrics.Port))
	}
	return nil
}

// Validate ensures the approach geometry is usable.
func (g *GraspConfig) Validate(path string) error {
	if len(g.Corners) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "corners")
	}
	if g.OffsetDistance <= 0 {
		return utils.NewConfigValidationError(path, errors.New("offset_distance must be positive"))
	}
	return nil
}

// Validate ensures the descent makes progress.
func (f *ForceConfig) Validate(path string) error {
	if f.Step <= 0 {
		return utils.NewConfigValidationError(path, errors.New("step must be positive"))
	}
	if f.MaxSteps < 0 {
		return utils.NewConfigValidationError(path, errors.New("max_steps must not be negative"))
	}
	return nil
}

// Validate ensures every configuration has one position per named joint.
func (j *JointsConfig) Validate(path string) error {
	if len(j.Names) != referenceframe.ArmDoF {
		return utils.NewConfigValidationError(path+".names", referenceframe.NewIncorrectDoFError(len(j.Names), referenceframe.ArmDoF))
	}
	for _, named := range []struct {
		name      string
		positions []float64
	}{
		{"home", j.Home},
		{"view", j.View},
		{"drop", j.Drop},
		{"deliver", j.Deliver},
	} {
		if len(named.positions) != referenceframe.ArmDoF {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.%s", path, named.name),
				referenceframe.NewIncorrectDoFError(len(named.positions), referenceframe.ArmDoF))
		}
	}
	return nil
}

// Validate ensures the perception process can be started.
func (p *PerceptionConfig) Validate(path string) error {
	if p.Command == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "command")
	}
	if p.PollInterval <= 0 {
		return utils.NewConfigValidationError(path, errors.New("poll_interval must be positive"))
	}
	if p.LivenessInterval <= 0 {
		return utils.NewConfigValidationError(path, errors.New("liveness_interval must be positive"))
	}
	if p.ReadyTimeout < 0 {
		return utils.NewConfigValidationError(path, errors.New("ready_timeout must not be negative"))
	}
	return nil
}

// Configuration returns the named joint configuration.
func (j *JointsConfig) Configuration(positions []float64) (referenceframe.JointConfiguration, error) {
	return referenceframe.NewJointConfiguration(j.Names, positions)
}
