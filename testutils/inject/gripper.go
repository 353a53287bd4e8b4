package inject

import (
	"context"

	"go.viam.com/graspexec/components/gripper"
)

// Gripper is an injected gripper.
type Gripper struct {
	gripper.Gripper
	CommandFunc func(ctx context.Context, cmd gripper.Command) error
	StatusFunc  func() (gripper.Status, bool)
}

// Command calls the injected Command or the real version.
func (g *Gripper) Command(ctx context.Context, cmd gripper.Command) error {
	if g.CommandFunc == nil {
		return g.Gripper.Command(ctx, cmd)
	}
	return g.CommandFunc(ctx, cmd)
}

// Status calls the injected Status or the real version.
func (g *Gripper) Status() (gripper.Status, bool) {
	if g.StatusFunc == nil {
		return g.Gripper.Status()
	}
	return g.StatusFunc()
}
