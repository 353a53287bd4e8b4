package motion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/referenceframe"
)

// Subjects names the planning service's request subjects.
type Subjects struct {
	Plan        string
	Execute     string
	Stop        string
	CurrentPose string
}

type planRequest struct {
	Start  *referenceframe.JointConfiguration `json:"start,omitempty"`
	Pose   *referenceframe.PoseInFrame        `json:"pose,omitempty"`
	Joints *referenceframe.JointConfiguration `json:"joints,omitempty"`
}

type planResponse struct {
	Waypoints []Waypoint `json:"waypoints"`
	Error     string     `json:"error,omitempty"`
}

type executeRequest struct {
	PlanID    string     `json:"plan_id"`
	Waypoints []Waypoint `json:"waypoints"`
}

type ackResponse struct {
	Error string `json:"error,omitempty"`
}

type poseResponse struct {
	Pose  referenceframe.PoseInFrame `json:"pose"`
	Error string                     `json:"error,omitempty"`
}

// Client is a Service reached over bus request/reply.
type Client struct {
	req         bus.Requester
	subjects    Subjects
	planTimeout time.Duration
	logger      logging.Logger
}

// NewClient returns a planning client. planTimeout bounds each planning round trip; zero means unbounded.
func NewClient(req bus.Requester, subjects Subjects, planTimeout time.Duration, logger logging.Logger) *Client {
	return &Client{req: req, subjects: subjects, planTimeout: planTimeout, logger: logger}
}

// Plan implements Service. An empty trajectory, a planner-reported failure, or an expired plan timeout
// is ErrPlanInfeasible.
func (c *Client) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	planCtx := ctx
	if c.planTimeout > 0 {
		var cancel context.CancelFunc
		planCtx, cancel = context.WithTimeout(ctx, c.planTimeout)
		defer cancel()
	}

	var resp planResponse
	wire := planRequest{Start: req.Start, Pose: req.Target.Pose, Joints: req.Target.Joints}
	if err := c.req.Request(planCtx, c.subjects.Plan, wire, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewPlanInfeasibleError(req.Target, "planning timed out after "+c.planTimeout.String())
		}
		return nil, errors.Wrap(err, "planning request failed")
	}
	if resp.Error != "" || len(resp.Waypoints) == 0 {
		return nil, NewPlanInfeasibleError(req.Target, resp.Error)
	}

	plan := &Plan{
		ID:        uuid.NewString(),
		Start:     req.Start,
		Target:    req.Target,
		Waypoints: resp.Waypoints,
	}
	c.logger.Debugw("planned", "plan_id", plan.ID, "target", req.Target.String(), "waypoints", len(plan.Waypoints))
	return plan, nil
}

// Execute implements Service. It returns once the service reports the trajectory finished.
func (c *Client) Execute(ctx context.Context, plan *Plan) error {
	if plan == nil || len(plan.Waypoints) == 0 {
		return errors.New("cannot execute an empty plan")
	}
	var resp ackResponse
	if err := c.req.Request(ctx, c.subjects.Execute, executeRequest{PlanID: plan.ID, Waypoints: plan.Waypoints}, &resp); err != nil {
		return errors.Wrapf(err, "executing plan %s", plan.ID)
	}
	if resp.Error != "" {
		return errors.Errorf("executing plan %s: %s", plan.ID, resp.Error)
	}
	return nil
}

// Stop implements Service.
func (c *Client) Stop(ctx context.Context) error {
	var resp ackResponse
	if err := c.req.Request(ctx, c.subjects.Stop, struct{}{}, &resp); err != nil {
		return errors.Wrap(err, "stopping arm")
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	return nil
}

// CurrentPose implements Service.
func (c *Client) CurrentPose(ctx context.Context) (referenceframe.PoseInFrame, error) {
	var resp poseResponse
	if err := c.req.Request(ctx, c.subjects.CurrentPose, struct{}{}, &resp); err != nil {
		return referenceframe.PoseInFrame{}, errors.Wrap(err, "reading current pose")
	}
	if resp.Error != "" {
		return referenceframe.PoseInFrame{}, errors.New(resp.Error)
	}
	return resp.Pose, nil
}
