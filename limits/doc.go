// Package limits provides centralized circuit size constants and validation
// functions for qbridge. Every layer that accepts a qubit count, a qubit index
// or grows an operation sequence validates against this package so the
// boundary, the engine and the CLI agree on the same bounds.
//
// # Size Hierarchy
//
//   - MaxQubits (4096): the widest circuit the engine will allocate. The
//     effective per-process limit is configurable below this ceiling.
//
//   - DefaultMaxQubits (64): the limit used when nothing else is configured.
//
//   - MaxOperations (1<<20): the longest operation sequence a single circuit
//     may hold. Routing and noise-aware rewrites can grow a circuit, so passes
//     validate against this limit as well as gate insertion.
//
// # Validation Functions
//
//	if err := limits.ValidateQubitCount(n, limits.DefaultMaxQubits); err != nil {
//	    // ErrQubitCount
//	}
//
//	if err := limits.ValidateQubitIndex(q, n); err != nil {
//	    // ErrQubitIndex
//	}
//
// # Error Types
//
//   - ErrQubitCount: the requested width is zero or above the limit
//   - ErrQubitIndex: a qubit index falls outside [0, n)
//   - ErrTooManyOperations: an operation sequence would exceed MaxOperations
package limits
