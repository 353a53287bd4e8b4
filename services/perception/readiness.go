package perception

import "fmt"

// Readiness latches once a complete perception reading has arrived. The first message after a reset may
// describe a scene captured before the reset, so readiness needs two.
type Readiness int

// The readiness states, in order.
const (
	ReadinessReset Readiness = iota
	ReadinessWaitForOne
	ReadinessReady
)

// Next returns the state after one more perception message.
func (r Readiness) Next() Readiness {
	switch r {
	case ReadinessReset:
		return ReadinessWaitForOne
	case ReadinessWaitForOne, ReadinessReady:
		return ReadinessReady
	}
	return ReadinessReady
}

func (r Readiness) String() string {
	switch r {
	case ReadinessReset:
		return "RESET"
	case ReadinessWaitForOne:
		return "WAIT_FOR_ONE"
	case ReadinessReady:
		return "READY"
	}
	return fmt.Sprintf("Readiness(%d)", int(r))
}
