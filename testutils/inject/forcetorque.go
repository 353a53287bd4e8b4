package inject

import (
	"context"

	"go.viam.com/graspexec/components/forcetorque"
)

// ForceTorqueSensor is an injected force/torque sensor.
type ForceTorqueSensor struct {
	forcetorque.Sensor
	WrenchFunc func(ctx context.Context) (forcetorque.Wrench, error)
}

// Wrench calls the injected Wrench or the real version.
func (s *ForceTorqueSensor) Wrench(ctx context.Context) (forcetorque.Wrench, error) {
	if s.WrenchFunc == nil {
		return s.Sensor.Wrench(ctx)
	}
	return s.WrenchFunc(ctx)
}
