// Package limits provides centralized circuit size limits for qbridge.
// This ensures consistent validation across the boundary and the engine.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxQubits is the hard ceiling on circuit width
	MaxQubits = 4096

	// DefaultMaxQubits is the width limit applied when none is configured
	DefaultMaxQubits = 64

	// MaxOperations is the maximum length of a circuit's operation sequence
	MaxOperations = 1 << 20
)

var (
	// ErrQubitCount indicates an invalid circuit width
	ErrQubitCount = errors.New("invalid qubit count")

	// ErrQubitIndex indicates a qubit index outside the circuit
	ErrQubitIndex = errors.New("qubit index out of range")

	// ErrTooManyOperations indicates an operation sequence above MaxOperations
	ErrTooManyOperations = errors.New("too many operations")
)

// ValidateQubitCount validates a circuit width against [1, maxQubits].
// A maxQubits outside [1, MaxQubits] is clamped to MaxQubits.
func ValidateQubitCount(n, maxQubits int) error {
	if maxQubits <= 0 || maxQubits > MaxQubits {
		maxQubits = MaxQubits
	}
	if n <= 0 {
		return fmt.Errorf("%w: %d qubits", ErrQubitCount, n)
	}
	if n > maxQubits {
		return fmt.Errorf("%w: %d qubits exceeds limit %d", ErrQubitCount, n, maxQubits)
	}
	return nil
}

// ValidateQubitIndex validates that q addresses one of n qubits.
func ValidateQubitIndex(q, n int) error {
	if q < 0 || q >= n {
		return fmt.Errorf("%w: index %d not in [0, %d)", ErrQubitIndex, q, n)
	}
	return nil
}

// ValidateOperationCount validates an operation sequence length against MaxOperations.
func ValidateOperationCount(count int) error {
	if count > MaxOperations {
		return fmt.Errorf("%w: %d operations exceeds limit %d", ErrTooManyOperations, count, MaxOperations)
	}
	return nil
}
