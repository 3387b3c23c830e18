// Package passes implements the transformation stages applied to circuits
// and the named pass groups exposed through the boundary.
//
// Each stage implements [Pass]. A [Pipeline] is an ordered list of stages
// run against a working copy of a circuit: the copy replaces the original
// only when every stage succeeds, so a failing stage never leaves a circuit
// half transformed.
//
// Two groups are predefined:
//
//   - [Basic]: remove_redundant_gates, remove_idle_wires, remove_barriers
//   - [Advanced]: route_to_hardware, optimize_noise_aware, optimize_depth
//
// New groupings are built with [NewPipeline] or [Pipeline.With] without
// touching the existing ones.
package passes
