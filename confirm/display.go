package confirm

import (
	"context"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/services/motion"
)

type trajectoryMessage struct {
	Description string            `json:"description"`
	PlanID      string            `json:"plan_id"`
	Target      motion.Target     `json:"target"`
	Waypoints   []motion.Waypoint `json:"waypoints"`
}

// BusDisplayer publishes proposed trajectories for visualization.
type BusDisplayer struct {
	pub     bus.Publisher
	subject string
}

// NewBusDisplayer returns a displayer publishing on subject.
func NewBusDisplayer(pub bus.Publisher, subject string) *BusDisplayer {
	return &BusDisplayer{pub: pub, subject: subject}
}

// Display implements Displayer.
func (d *BusDisplayer) Display(ctx context.Context, p Proposal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := trajectoryMessage{Description: p.Description}
	if p.Plan != nil {
		msg.PlanID = p.Plan.ID
		msg.Target = p.Plan.Target
		msg.Waypoints = p.Plan.Waypoints
	}
	return d.pub.Publish(d.subject, msg)
}
