package forcetorque

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
)

func TestBusSensor(t *testing.T) {
	logger := logging.NewTestLogger(t)
	lb := bus.NewLoopback()

	s, err := NewBusSensor(lb, "forcetorque.wrench", logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = s.Wrench(context.Background())
	test.That(t, err, test.ShouldBeError, ErrNoReading)

	err = lb.Publish("forcetorque.wrench", map[string]interface{}{
		"force":  map[string]float64{"x": 3, "y": 0, "z": -4},
		"torque": map[string]float64{"x": 0.1},
	})
	test.That(t, err, test.ShouldBeNil)

	w, err := s.Wrench(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, w.ForceMagnitude(), test.ShouldAlmostEqual, 5)
	test.That(t, w.Torque.X, test.ShouldEqual, 0.1)
}
