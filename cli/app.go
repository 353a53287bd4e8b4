// Package cli contains the graspexec command line.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig      = "config"
	flagDebug       = "debug"
	flagAutoConfirm = "auto-confirm"
	flagBag         = "bag"
	flagTopic       = "topic"
	flagSpeed       = "speed"
)

var app = &cli.App{
	Name:            "graspexec",
	Usage:           "select reachable grasps and run force-feedback pick-and-place",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
			EnvVars: []string{"GRASPEXEC_CONFIG"},
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "run",
			Usage: "connect to the robot and run pick-place cycles until interrupted",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  flagAutoConfirm,
					Usage: "execute every planned motion without asking",
				},
			},
			Action: RunAction,
		},
		{
			Name:   "check-config",
			Usage:  "load and validate the configuration, then print it",
			Action: CheckConfigAction,
		},
		{
			Name:      "replay",
			Usage:     "publish grasp lists recorded in a rosbag onto the perception subject",
			ArgsUsage: "--bag <file>",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     flagBag,
					Usage:    "rosbag to replay",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagTopic,
					Usage: "topic holding the grasp lists",
					Value: "/detect_grasps/grasps",
				},
				&cli.Float64Flag{
					Name:  flagSpeed,
					Usage: "playback speed relative to recording; 0 publishes back to back",
					Value: 1,
				},
			},
			Action: ReplayAction,
		},
	},
}

// NewApp returns a new app with the CLI command definitions.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
