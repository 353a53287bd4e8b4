package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/referenceframe"
)

// EnvPrefix prefixes environment overrides. Nested keys are separated by "__", so
// GRASPEXEC__FORCE__THRESHOLD sets force.threshold.
const EnvPrefix = "GRASPEXEC__"

// Load merges the YAML file at path (if given and present) and environment overrides over the defaults.
// Any key present in the file or environment wins, zero values included. It does not validate.
func Load(path string) (*Config, error) {
	k, err := newDefaultKoanf()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "reading environment overrides")
	}
	return unmarshal(k)
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Default returns the configuration with every default applied.
func Default() *Config {
	k, err := newDefaultKoanf()
	if err != nil {
		panic(err)
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(err)
	}
	return cfg
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return &cfg, nil
}

var (
	defaultHome    = []float64{0.0031, -1.5737, -1.4044, -1.7412, 1.6029, 0.0323}
	defaultView    = []float64{0.2499, -0.7026, -2.0076, -1.7587, 1.5222, 0.2578}
	defaultDrop    = []float64{0.1465, -1.8239, -1.0429, -1.8702, 1.6055, 0.0325}
	defaultDeliver = []float64{-0.5880, -2.3754, -0.8876, -1.4371, 1.6042, 0.0323}
)

// defaults are keyed by koanf path. Loading them first lets the file and environment replace any of
// them, including with a zero value.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"nats_url": "nats://127.0.0.1:4222",

		"subjects.grasps":             "perception.grasps",
		"subjects.gripper_command":    "gripper.command",
		"subjects.gripper_status":     "gripper.status",
		"subjects.wrench":             "forcetorque.wrench",
		"subjects.plan":               "motion.plan",
		"subjects.execute":            "motion.execute",
		"subjects.stop":               "motion.stop",
		"subjects.current_pose":       "motion.pose",
		"subjects.transform":          "frames.transform",
		"subjects.display_trajectory": "display.trajectory",
		"subjects.display_poses":      "display.poses",

		"frames.sensor": "camera_link",
		"frames.base":   "base_link",

		"transform.timeout":        4 * time.Second,
		"transform.retry_interval": 50 * time.Millisecond,
		"planning.timeout":         30 * time.Second,

		"grasp.pitch_degrees":   30.0,
		"grasp.offset_distance": 0.1,
		"grasp.corners": []interface{}{
			map[string]interface{}{"x": 0.0, "y": 0.0},
			map[string]interface{}{"x": 0.0, "y": 10.0},
			map[string]interface{}{"x": 10.0, "y": 10.0},
			map[string]interface{}{"x": 10.0, "y": 0.0},
		},

		"force.threshold": 1.0,
		"force.step":      0.01,
		"force.max_steps": 30,

		"lift.distance": 0.05,
		"lift.pause":    time.Second,

		"joints.names":   append([]string(nil), referenceframe.DefaultJointNames...),
		"joints.home":    append([]float64(nil), defaultHome...),
		"joints.view":    append([]float64(nil), defaultView...),
		"joints.drop":    append([]float64(nil), defaultDrop...),
		"joints.deliver": append([]float64(nil), defaultDeliver...),

		"perception.poll_interval":     2 * time.Second,
		"perception.liveness_interval": 100 * time.Millisecond,

		"gripper.connect_poll":  time.Second,
		"gripper.command_pause": 100 * time.Millisecond,

		"cycle.interval": time.Second,

		"confirm.mode": string(ConfirmInteractive),
	}
}

func newDefaultKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, errors.Wrapf(err, "setting default %s", key)
		}
	}
	return k, nil
}
