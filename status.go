package qbridge

import (
	"errors"
	"fmt"

	"github.com/opd-ai/qbridge/circuit"
	"github.com/opd-ai/qbridge/limits"
)

// Status is the integer result of a boundary call. Zero is success; every
// failure is a small negative number so C callers can test `status < 0`.
type Status int32

const (
	// StatusOK indicates success
	StatusOK Status = 0
	// StatusNullHandle indicates the null sentinel was passed for a required handle
	StatusNullHandle Status = -1
	// StatusInvalidIndex indicates a qubit index outside the circuit
	StatusInvalidIndex Status = -2
	// StatusStaleHandle indicates a freed, consumed, foreign or never-issued handle
	StatusStaleHandle Status = -3
	// StatusEngineFailure indicates a pass or transpilation failed inside the engine
	StatusEngineFailure Status = -4
	// StatusInvalidArgument indicates an argument rejected for reasons other than range
	StatusInvalidArgument Status = -5
	// StatusBufferTooSmall indicates a caller buffer cannot hold the result
	StatusBufferTooSmall Status = -6
)

// ErrBufferTooSmall indicates a caller-provided buffer is too short
var ErrBufferTooSmall = errors.New("buffer too small")

var statusNames = map[Status]string{
	StatusOK:              "ok",
	StatusNullHandle:      "null_handle",
	StatusInvalidIndex:    "invalid_index",
	StatusStaleHandle:     "stale_handle",
	StatusEngineFailure:   "engine_failure",
	StatusInvalidArgument: "invalid_argument",
	StatusBufferTooSmall:  "buffer_too_small",
}

// String returns the snake_case name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// OK reports whether s is StatusOK.
func (s Status) OK() bool { return s == StatusOK }

// StatusFromError maps an error from the boundary or the engine onto the
// status domain. Unrecognized errors are engine failures.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNullHandle):
		return StatusNullHandle
	case errors.Is(err, ErrStaleHandle):
		return StatusStaleHandle
	case errors.Is(err, limits.ErrQubitIndex):
		return StatusInvalidIndex
	case errors.Is(err, ErrBufferTooSmall):
		return StatusBufferTooSmall
	case errors.Is(err, limits.ErrQubitCount),
		errors.Is(err, limits.ErrTooManyOperations),
		errors.Is(err, circuit.ErrInvalidOperation):
		return StatusInvalidArgument
	default:
		return StatusEngineFailure
	}
}
