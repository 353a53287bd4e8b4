package inject

import (
	"context"

	"go.viam.com/graspexec/services/graspselect"
	"go.viam.com/graspexec/services/perception"
)

// Detector is an injected perception detector.
type Detector struct {
	perception.Detector
	DetectFunc func(ctx context.Context) (perception.Batch, error)
}

// Detect calls the injected Detect or the real version.
func (d *Detector) Detect(ctx context.Context) (perception.Batch, error) {
	if d.DetectFunc == nil {
		return d.Detector.Detect(ctx)
	}
	return d.DetectFunc(ctx)
}

// Selector is an injected grasp selector.
type Selector struct {
	graspselect.Selector
	SelectFunc func(ctx context.Context, batch perception.Batch) (*graspselect.Target, graspselect.Report, error)
}

// Select calls the injected Select or the real version.
func (s *Selector) Select(ctx context.Context, batch perception.Batch) (*graspselect.Target, graspselect.Report, error) {
	if s.SelectFunc == nil {
		return s.Selector.Select(ctx, batch)
	}
	return s.SelectFunc(ctx, batch)
}
