// Package forcetorque reads the wrist force/torque sensor.
package forcetorque

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/spatialmath"
)

// ErrNoReading is returned before the sensor has published anything.
var ErrNoReading = errors.New("no force/torque reading received yet")

// Wrench is a force and torque measured at the wrist.
type Wrench struct {
	Force  r3.Vector
	Torque r3.Vector
}

// ForceMagnitude is the norm of the force vector.
func (w Wrench) ForceMagnitude() float64 {
	return w.Force.Norm()
}

// A Sensor reports the latest wrench.
type Sensor interface {
	Wrench(ctx context.Context) (Wrench, error)
}

type wrenchMessage struct {
	Force  spatialmath.Vector3 `json:"force"`
	Torque spatialmath.Vector3 `json:"torque"`
}

// BusSensor keeps the latest wrench published on a subject.
type BusSensor struct {
	latest atomic.Pointer[Wrench]
}

// NewBusSensor subscribes to subject.
func NewBusSensor(sub bus.Subscriber, subject string, logger logging.Logger) (*BusSensor, error) {
	s := &BusSensor{}
	err := bus.SubscribeJSON(sub, subject, logger, func(msg wrenchMessage) {
		s.latest.Store(&Wrench{Force: msg.Force.R3(), Torque: msg.Torque.R3()})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Wrench implements Sensor.
func (s *BusSensor) Wrench(ctx context.Context) (Wrench, error) {
	if err := ctx.Err(); err != nil {
		return Wrench{}, err
	}
	w := s.latest.Load()
	if w == nil {
		return Wrench{}, ErrNoReading
	}
	return *w, nil
}
