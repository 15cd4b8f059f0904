package dynamo

import "errors"

// Domain errors for simulation setup and commands.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownBody indicates a reference to a celestial body that is not in the universe.
	ErrUnknownBody = errors.New("dynamo: unknown celestial body")

	// ErrUnknownThruster indicates a command for a thruster the vehicle does not have.
	ErrUnknownThruster = errors.New("dynamo: unknown thruster")

	// ErrDuplicateBody indicates two celestial bodies sharing a name.
	ErrDuplicateBody = errors.New("dynamo: duplicate celestial body name")

	// ErrDimensionMismatch indicates a record or vector of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// StepError wraps an error with simulation context.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
