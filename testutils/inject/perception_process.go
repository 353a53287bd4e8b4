package inject

import (
	"context"

	"go.viam.com/graspexec/services/perception"
)

// PerceptionProcess is an injected perception process.
type PerceptionProcess struct {
	perception.Process
	StartFunc func(ctx context.Context) error
	StopFunc  func() error
	AliveFunc func() bool
}

// Start calls the injected Start or the real version.
func (p *PerceptionProcess) Start(ctx context.Context) error {
	if p.StartFunc == nil {
		return p.Process.Start(ctx)
	}
	return p.StartFunc(ctx)
}

// Stop calls the injected Stop or the real version.
func (p *PerceptionProcess) Stop() error {
	if p.StopFunc == nil {
		return p.Process.Stop()
	}
	return p.StopFunc()
}

// Alive calls the injected Alive or the real version.
func (p *PerceptionProcess) Alive() bool {
	if p.AliveFunc == nil {
		return p.Process.Alive()
	}
	return p.AliveFunc()
}
