package gripper

import (
	"context"

	"go.uber.org/atomic"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
)

// Subjects names the gripper's command and status subjects.
type Subjects struct {
	Command string
	Status  string
}

type commandMessage struct {
	Command Command `json:"command"`
}

// PubSub is the part of the bus a BusGripper needs.
type PubSub interface {
	bus.Publisher
	bus.Subscriber
}

// BusGripper publishes commands and keeps the latest status received on the status subject.
type BusGripper struct {
	pub      bus.Publisher
	subjects Subjects
	logger   logging.Logger

	status atomic.Pointer[Status]
}

// NewBusGripper subscribes to the status subject and returns a gripper publishing on the command subject.
func NewBusGripper(b PubSub, subjects Subjects, logger logging.Logger) (*BusGripper, error) {
	g := &BusGripper{pub: b, subjects: subjects, logger: logger}
	if err := bus.SubscribeJSON(b, subjects.Status, logger, g.handleStatus); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *BusGripper) handleStatus(s Status) {
	prev := g.status.Swap(&s)
	if prev == nil || prev.Object != s.Object {
		g.logger.Debugw("gripper status", "object", s.Object.String(), "position", s.Position)
	}
}

// Command implements Gripper.
func (g *BusGripper) Command(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.logger.Debugw("gripper command", "command", cmd)
	return g.pub.Publish(g.subjects.Command, commandMessage{Command: cmd})
}

// Status implements Gripper.
func (g *BusGripper) Status() (Status, bool) {
	s := g.status.Load()
	if s == nil {
		return Status{}, false
	}
	return *s, true
}
