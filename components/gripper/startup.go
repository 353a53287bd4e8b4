package gripper

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/utils"
)

// activationSequence cycles the fingers once after activation to confirm the actuator responds.
var activationSequence = []Command{CommandReset, CommandActivate, CommandClose, CommandOpen}

// WaitForConnection polls until the gripper has reported a status, or ctx is done.
func WaitForConnection(ctx context.Context, g Gripper, clk clock.Clock, poll time.Duration, logger logging.Logger) error {
	for {
		if _, ok := g.Status(); ok {
			return nil
		}
		logger.Info("Waiting for gripper to connect")
		if !utils.SelectClockOrWait(ctx, clk, poll) {
			return errors.Wrap(ctx.Err(), "waiting for gripper")
		}
	}
}

// Activate resets and activates the gripper, then closes and opens it, pausing between commands.
func Activate(ctx context.Context, g Gripper, clk clock.Clock, pause time.Duration, logger logging.Logger) error {
	for _, cmd := range activationSequence {
		if err := g.Command(ctx, cmd); err != nil {
			return errors.Wrapf(err, "gripper %s", cmd)
		}
		if !utils.SelectClockOrWait(ctx, clk, pause) {
			return ctx.Err()
		}
	}
	logger.Info("Gripper active")
	return nil
}
