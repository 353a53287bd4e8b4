// Package metrics records grasp-cycle observability. The executor talks to a Recorder; Prometheus is
// one implementation and NoopRecorder is the default.
package metrics

import "time"

// CandidateOutcome labels how one evaluated candidate ended.
type CandidateOutcome string

// Candidate outcomes.
const (
	CandidateAccepted       CandidateOutcome = "accepted"
	CandidateBadTransform   CandidateOutcome = "bad_transform"
	CandidateBadGeometry    CandidateOutcome = "bad_geometry"
	CandidatePlanInfeasible CandidateOutcome = "plan_infeasible"
)

// CycleOutcome labels how one top-level cycle ended.
type CycleOutcome string

// Cycle outcomes.
const (
	CycleGrabbed  CycleOutcome = "grabbed"
	CycleMissed   CycleOutcome = "missed"
	CycleNoTarget CycleOutcome = "no_target"
	CycleFailed   CycleOutcome = "failed"
	CycleCanceled CycleOutcome = "canceled"
	CycleIdle     CycleOutcome = "idle"
)

// Recorder defines observability hooks for the grasp executor.
type Recorder interface {
	IncCandidateOutcome(outcome CandidateOutcome)
	IncCycleOutcome(outcome CycleOutcome)
	ObserveCycleDuration(d time.Duration)
	ObserveDescentSteps(steps int)
	SetExecutionState(state int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCandidateOutcome(CandidateOutcome) {}
func (NoopRecorder) IncCycleOutcome(CycleOutcome)         {}
func (NoopRecorder) ObserveCycleDuration(time.Duration)   {}
func (NoopRecorder) ObserveDescentSteps(int)              {}
func (NoopRecorder) SetExecutionState(int)                {}
