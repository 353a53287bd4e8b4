package config

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// String prints the configuration as a table of setting and value.
func (c *Config) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Setting", "Value"})
	rows := []table.Row{
		{"nats_url", c.NATSURL},
		{"frames", fmt.Sprintf("%s -> %s", c.Frames.Sensor, c.Frames.Base)},
		{"transform", c.transformSummary()},
		{"planning.timeout", c.Planning.Timeout},
		{"grasp.pitch_degrees", c.Grasp.PitchDegrees},
		{"grasp.offset_distance", c.Grasp.OffsetDistance},
		{"grasp.corners", c.cornersSummary()},
		{"force", fmt.Sprintf("threshold %g, step %g, max %d steps", c.Force.Threshold, c.Force.Step, c.Force.MaxSteps)},
		{"lift", fmt.Sprintf("%g after close, pause %s", c.Lift.Distance, c.Lift.Pause)},
		{"perception.command", strings.TrimSpace(c.Perception.Command + " " + strings.Join(c.Perception.Args, " "))},
		{"perception.ready_timeout", readyTimeout(c)},
		{"cycle.interval", c.Cycle.Interval},
		{"confirm.mode", c.Confirm.Mode},
		{"metrics.port", c.Metrics.Port},
	}
	for _, r := range rows {
		t.AppendRow(r)
	}
	for _, name := range []string{"home", "view", "drop", "deliver"} {
		t.AppendRow(table.Row{"joints." + name, formatJoints(c.Joints.positions(name))})
	}
	return t.Render()
}

func (c *Config) transformSummary() string {
	if c.Transform.Static != nil {
		return fmt.Sprintf("static %v rpy %v", c.Transform.Static.Translation, c.Transform.Static.RPYDegrees)
	}
	return fmt.Sprintf("service, timeout %s", c.Transform.Timeout)
}

func (c *Config) cornersSummary() string {
	parts := make([]string, 0, len(c.Grasp.Corners))
	for _, corner := range c.Grasp.Corners {
		parts = append(parts, fmt.Sprintf("(%g, %g)", corner.X, corner.Y))
	}
	return strings.Join(parts, " ")
}

func readyTimeout(c *Config) string {
	if c.Perception.ReadyTimeout == 0 {
		return "none"
	}
	return c.Perception.ReadyTimeout.String()
}

func (j *JointsConfig) positions(name string) []float64 {
	switch name {
	case "home":
		return j.Home
	case "view":
		return j.View
	case "drop":
		return j.Drop
	case "deliver":
		return j.Deliver
	}
	return nil
}

func formatJoints(positions []float64) string {
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		parts = append(parts, fmt.Sprintf("%.3f", p))
	}
	return strings.Join(parts, " ")
}
