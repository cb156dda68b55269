package steering

import "errors"

var (
	// ErrInvalidParameter is returned for construction parameters or tick
	// deltas outside their allowed range.
	ErrInvalidParameter = errors.New("steering: invalid parameter")
	// ErrUnknownAgent is returned when an operation names an agent id the
	// system does not hold.
	ErrUnknownAgent = errors.New("steering: unknown agent")
)
