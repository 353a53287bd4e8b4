package cli

import (
	"github.com/benbjohnson/clock"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/ros"
)

// ReplayAction is the corresponding Action for 'replay'.
func ReplayAction(c *cli.Context) error {
	logger := newLogger(c, "graspexec.replay")
	defer goutils.UncheckedErrorFunc(logger.Sync)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	rb, err := ros.ReadBag(c.Path(flagBag))
	if err != nil {
		return err
	}
	msgs, err := ros.GraspLists(rb, c.String(flagTopic))
	if err != nil {
		return err
	}
	logger.Infow("replaying", "messages", len(msgs), "subject", cfg.Subjects.Grasps)

	b, err := bus.Connect(cfg.NATSURL, logger)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(b.Close)

	return ros.Replay(c.Context, b, cfg.Subjects.Grasps, msgs, c.Float64(flagSpeed), clock.New(), logger)
}
