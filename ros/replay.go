package ros

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/gobag/rosbag"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/utils"
)

// GraspLists returns every grasp-list message recorded on topic.
func GraspLists(rb *rosbag.RosBag, topic string) ([]GraspListMessage, error) {
	raw, err := AllMessagesForTopic(rb, topic)
	if err != nil {
		return nil, err
	}
	out := make([]GraspListMessage, 0, len(raw))
	for _, data := range raw {
		msg, err := DecodeGraspList(data)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// Replay publishes msgs on subject, spaced by their recorded intervals divided by speed. A speed of zero
// publishes back to back.
func Replay(
	ctx context.Context,
	pub bus.Publisher,
	subject string,
	msgs []GraspListMessage,
	speed float64,
	clk clock.Clock,
	logger logging.Logger,
) error {
	for i, msg := range msgs {
		if i > 0 && speed > 0 {
			gap := msg.Meta.Time().Sub(msgs[i-1].Meta.Time())
			if !utils.SelectClockOrWait(ctx, clk, time.Duration(float64(gap)/speed)) {
				return ctx.Err()
			}
		}
		if err := pub.Publish(subject, msg.Perception()); err != nil {
			return err
		}
		logger.Debugw("replayed grasp list", "index", i, "grasps", len(msg.Data.Grasps))
	}
	logger.Infow("replay complete", "messages", len(msgs))
	return nil
}
