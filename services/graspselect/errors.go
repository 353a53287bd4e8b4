package graspselect

import "github.com/pkg/errors"

var (
	// ErrNoTargetFound is returned when every candidate of a batch was rejected.
	ErrNoTargetFound = errors.New("no reachable grasp target found")
	// ErrConfiguration marks a setup defect such as an empty corner or candidate list.
	ErrConfiguration = errors.New("grasp selection misconfigured")
)

// NewConfigurationError wraps ErrConfiguration with detail.
func NewConfigurationError(detail string) error {
	return errors.Wrap(ErrConfiguration, detail)
}

// NewNoTargetFoundError wraps ErrNoTargetFound with the per-outcome counts of the evaluation.
func NewNoTargetFoundError(r Report) error {
	return errors.Wrapf(ErrNoTargetFound, "%d candidates: %d bad transforms, %d bad geometry, %d unreachable",
		r.Candidates, r.BadTransforms, r.BadGeometry, r.Unreachable)
}
