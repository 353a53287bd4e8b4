package referenceframe

import "github.com/pkg/errors"

// NewIncorrectDoFError is returned when a joint configuration has the wrong number of entries.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}
