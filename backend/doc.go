// Package backend describes the hardware target a circuit is routed and
// optimized for.
//
// A Backend lists its physical qubit count, the directed two-qubit couplings
// it supports together with a CX error rate per direction, and an optional
// single-qubit error rate per qubit. Routing treats the coupling map as
// undirected; noise-aware optimization uses the directions and error rates.
//
// Backends are usually loaded from YAML:
//
//	name: line3
//	num_qubits: 3
//	edges:
//	  - {control: 0, target: 1, error: 0.010}
//	  - {control: 1, target: 0, error: 0.030}
//	  - {control: 1, target: 2, error: 0.012}
//	single_qubit_errors: [0.001, 0.001, 0.002]
//
// A nil *Backend means an ideal all-to-all device: every pass that consumes a
// backend treats nil as "no constraints".
package backend
