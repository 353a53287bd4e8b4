// Package frametransform expresses poses in other reference frames by asking the transform service,
// which may not yet know the transform when the executor starts.
package frametransform

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/referenceframe"
	"go.viam.com/graspexec/spatialmath"
	"go.viam.com/graspexec/utils"
)

// ErrTransformUnavailable is returned when no transform between two frames became known in time.
var ErrTransformUnavailable = errors.New("transform unavailable")

// A Service transforms a pose into another frame.
type Service interface {
	Transform(ctx context.Context, pose referenceframe.PoseInFrame, dst string) (referenceframe.PoseInFrame, error)
}

// NewTransformUnavailableError wraps ErrTransformUnavailable with both frame names.
func NewTransformUnavailableError(src, dst string, timeout time.Duration) error {
	return errors.Wrapf(ErrTransformUnavailable, "from %q to %q within %s", src, dst, timeout)
}

type transformRequest struct {
	Pose   referenceframe.PoseInFrame `json:"pose"`
	Source string                     `json:"source"`
	Target string                     `json:"target"`
}

type transformResponse struct {
	Pose        *referenceframe.PoseInFrame `json:"pose,omitempty"`
	Unavailable bool                        `json:"unavailable,omitempty"`
	Error       string                      `json:"error,omitempty"`
}

// Client is a Service reached over bus request/reply. Unavailable replies are retried until timeout, and
// the timeout also bounds a request the service never answers.
type Client struct {
	req           bus.Requester
	subject       string
	timeout       time.Duration
	retryInterval time.Duration
	clk           clock.Clock
	logger        logging.Logger
}

// NewClient returns a transform client.
func NewClient(
	req bus.Requester,
	subject string,
	timeout, retryInterval time.Duration,
	clk clock.Clock,
	logger logging.Logger,
) *Client {
	return &Client{
		req:           req,
		subject:       subject,
		timeout:       timeout,
		retryInterval: retryInterval,
		clk:           clk,
		logger:        logger,
	}
}

// Transform implements Service. A pose already in dst is returned unchanged.
func (c *Client) Transform(ctx context.Context, pose referenceframe.PoseInFrame, dst string) (referenceframe.PoseInFrame, error) {
	if pose.Frame == dst {
		return pose, nil
	}

	deadline := c.clk.Now().Add(c.timeout)
	for attempt := 1; ; attempt++ {
		var resp transformResponse
		reqCtx, cancel := context.WithTimeout(ctx, deadline.Sub(c.clk.Now()))
		err := c.req.Request(reqCtx, c.subject, transformRequest{Pose: pose, Source: pose.Frame, Target: dst}, &resp)
		reqErr := reqCtx.Err()
		cancel()
		switch {
		case err != nil && ctx.Err() != nil:
			return referenceframe.PoseInFrame{}, ctx.Err()
		case err != nil && reqErr != nil:
			c.logger.Debugw("transform request timed out", "src", pose.Frame, "dst", dst, "attempts", attempt)
			return referenceframe.PoseInFrame{}, NewTransformUnavailableError(pose.Frame, dst, c.timeout)
		case err != nil && !errors.Is(err, bus.ErrNoResponders):
			return referenceframe.PoseInFrame{}, errors.Wrap(err, "transform request failed")
		case err == nil && resp.Error != "":
			return referenceframe.PoseInFrame{}, errors.Errorf("transforming %s to %q: %s", pose.Frame, dst, resp.Error)
		case err == nil && !resp.Unavailable && resp.Pose != nil:
			return *resp.Pose, nil
		}

		if !c.clk.Now().Add(c.retryInterval).Before(deadline) {
			c.logger.Debugw("giving up on transform", "src", pose.Frame, "dst", dst, "attempts", attempt)
			return referenceframe.PoseInFrame{}, NewTransformUnavailableError(pose.Frame, dst, c.timeout)
		}
		if attempt == 1 {
			c.logger.Debugw("transform not yet available, retrying", "src", pose.Frame, "dst", dst)
		}
		if !utils.SelectClockOrWait(ctx, c.clk, c.retryInterval) {
			return referenceframe.PoseInFrame{}, ctx.Err()
		}
	}
}

// Static transforms between two frames related by a fixed extrinsic: the pose of Src expressed in Dst.
type Static struct {
	Src       string
	Dst       string
	Extrinsic spatialmath.Pose
}

// Transform implements Service. Poses may go either direction across the extrinsic.
func (s *Static) Transform(ctx context.Context, pose referenceframe.PoseInFrame, dst string) (referenceframe.PoseInFrame, error) {
	if err := ctx.Err(); err != nil {
		return referenceframe.PoseInFrame{}, err
	}
	switch {
	case pose.Frame == dst:
		return pose, nil
	case pose.Frame == s.Src && dst == s.Dst:
		return referenceframe.NewPoseInFrame(dst, spatialmath.Compose(s.Extrinsic, pose.Pose)), nil
	case pose.Frame == s.Dst && dst == s.Src:
		return referenceframe.NewPoseInFrame(dst, spatialmath.Compose(spatialmath.PoseInverse(s.Extrinsic), pose.Pose)), nil
	}
	return referenceframe.PoseInFrame{}, errors.Wrapf(ErrTransformUnavailable, "no static transform from %q to %q", pose.Frame, dst)
}
