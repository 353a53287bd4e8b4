// Package gripper defines the two-finger gripper: a discrete command channel out and an asynchronous
// status feed in.
package gripper

import (
	"context"
	"fmt"
)

// Command is one of the four discrete actuator commands.
type Command string

// The gripper commands. None carries a payload.
const (
	CommandReset    Command = "reset"
	CommandActivate Command = "activate"
	CommandOpen     Command = "open"
	CommandClose    Command = "close"
)

// ObjectStatus is the actuator's object-detection code.
type ObjectStatus int

// Object detection codes as reported by the actuator.
const (
	ObjectMoving ObjectStatus = iota
	ObjectDetectedOpening
	ObjectDetectedClosing
	ObjectMissed
)

func (s ObjectStatus) String() string {
	switch s {
	case ObjectMoving:
		return "moving"
	case ObjectDetectedOpening:
		return "detected-at-open"
	case ObjectDetectedClosing:
		return "detected-at-closed"
	case ObjectMissed:
		return "missed"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Status is the last reported actuator state.
type Status struct {
	Object    ObjectStatus `json:"object_status"`
	Position  int          `json:"position"`
	Activated bool         `json:"activated"`
}

// Missed reports whether the fingers closed without an object between them.
func (s Status) Missed() bool {
	return s.Object == ObjectMissed
}

// A Gripper accepts commands and reports its latest status.
type Gripper interface {
	Command(ctx context.Context, cmd Command) error
	// Status returns the most recent status and false if none has been received yet.
	Status() (Status, bool)
}
