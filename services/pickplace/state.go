package pickplace

import "fmt"

// ExecutionState is the pick-place phase. It only moves forward.
type ExecutionState int

// The phases of a run.
const (
	FirstGrab ExecutionState = iota
	SecondGrab
	Finished
)

// Next returns the phase after a successful grab-and-place. Finished stays Finished.
func (s ExecutionState) Next() ExecutionState {
	switch s {
	case FirstGrab:
		return SecondGrab
	case SecondGrab, Finished:
		return Finished
	}
	return Finished
}

func (s ExecutionState) String() string {
	switch s {
	case FirstGrab:
		return "FIRST_GRAB"
	case SecondGrab:
		return "SECOND_GRAB"
	case Finished:
		return "FINISHED"
	}
	return fmt.Sprintf("ExecutionState(%d)", int(s))
}

// Outcome is the result of one cycle.
type Outcome int

// Cycle outcomes.
const (
	// OutcomeIdle means the run was already finished and nothing moved.
	OutcomeIdle Outcome = iota
	OutcomeGrabbed
	OutcomeMissed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeGrabbed:
		return "grabbed"
	case OutcomeMissed:
		return "missed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}
