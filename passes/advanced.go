package passes

import (
	"fmt"

	"github.com/opd-ai/qbridge/backend"
	"github.com/opd-ai/qbridge/circuit"
)

// RouteToHardware inserts SWAPs so every two-qubit operation acts on coupled
// wires of Backend, and updates the circuit layout accordingly. Routing only
// uses the first NumQubits physical qubits of the backend.
type RouteToHardware struct {
	Backend *backend.Backend
}

// Name implements Pass.
func (RouteToHardware) Name() string { return "route_to_hardware" }

// Run implements Pass.
func (r RouteToHardware) Run(c *circuit.Circuit) error {
	if r.Backend == nil {
		return nil
	}
	n := c.NumQubits()
	if n > r.Backend.NumQubits {
		return fmt.Errorf("%w: circuit needs %d qubits, backend %q has %d",
			ErrUnroutable, n, r.Backend.Name, r.Backend.NumQubits)
	}

	// pos[v] is the wire currently holding what the input ops call wire v,
	// at[w] is its inverse.
	pos := make([]int, n)
	at := make([]int, n)
	for i := range pos {
		pos[i] = i
		at[i] = i
	}

	ops := c.Ops()
	out := make([]circuit.Op, 0, len(ops))
	for _, op := range ops {
		if op.Gate.Arity() == 2 {
			a, b := pos[op.Qubits[0]], pos[op.Qubits[1]]
			if !r.Backend.Coupled(a, b) {
				path := r.Backend.ShortestPath(a, b, n)
				if path == nil {
					return fmt.Errorf("%w: no path between wires %d and %d on backend %q",
						ErrUnroutable, a, b, r.Backend.Name)
				}
				for i := 0; i+2 < len(path); i++ {
					p, q := path[i], path[i+1]
					out = append(out, circuit.Op{Gate: circuit.GateSwap, Qubits: []int{p, q}})
					at[p], at[q] = at[q], at[p]
					pos[at[p]] = p
					pos[at[q]] = q
				}
			}
		}

		mapped := make([]int, len(op.Qubits))
		for i, v := range op.Qubits {
			mapped[i] = pos[v]
		}
		out = append(out, circuit.Op{Gate: op.Gate, Qubits: mapped})
	}

	layout := c.Layout()
	for l, v := range layout {
		layout[l] = pos[v]
	}
	if err := c.SetOps(out); err != nil {
		return err
	}
	return c.SetLayout(layout)
}

// OptimizeNoiseAware flips the direction of CX gates when the backend does
// not support the requested direction, or when the reversed CX plus four
// Hadamards has a lower combined error rate.
type OptimizeNoiseAware struct {
	Backend *backend.Backend
}

// Name implements Pass.
func (OptimizeNoiseAware) Name() string { return "optimize_noise_aware" }

// Run implements Pass.
func (o OptimizeNoiseAware) Run(c *circuit.Circuit) error {
	if o.Backend == nil {
		return nil
	}

	ops := c.Ops()
	out := make([]circuit.Op, 0, len(ops))
	for _, op := range ops {
		if op.Gate != circuit.GateCX || !o.shouldFlip(op.Qubits[0], op.Qubits[1]) {
			out = append(out, op)
			continue
		}
		ctrl, tgt := op.Qubits[0], op.Qubits[1]
		out = append(out,
			circuit.Op{Gate: circuit.GateH, Qubits: []int{ctrl}},
			circuit.Op{Gate: circuit.GateH, Qubits: []int{tgt}},
			circuit.Op{Gate: circuit.GateCX, Qubits: []int{tgt, ctrl}},
			circuit.Op{Gate: circuit.GateH, Qubits: []int{ctrl}},
			circuit.Op{Gate: circuit.GateH, Qubits: []int{tgt}},
		)
	}
	return c.SetOps(out)
}

func (o OptimizeNoiseAware) shouldFlip(ctrl, tgt int) bool {
	fwd, fwdOK := o.Backend.CXError(ctrl, tgt)
	rev, revOK := o.Backend.CXError(tgt, ctrl)
	switch {
	case !revOK:
		return false
	case !fwdOK:
		return true
	default:
		hadamards := 2 * (o.Backend.SingleQubitError(ctrl) + o.Backend.SingleQubitError(tgt))
		return rev+hadamards < fwd
	}
}

// OptimizeDepth fuses T·T into S and S·S into Z and cancels redundant
// self-inverse pairs, shortening the critical path.
type OptimizeDepth struct{}

// Name implements Pass.
func (OptimizeDepth) Name() string { return "optimize_depth" }

// Run implements Pass.
func (OptimizeDepth) Run(c *circuit.Circuit) error {
	merge := func(prev, cur circuit.Op) (circuit.Op, bool, bool) {
		if merged, keep, ok := fusePhases(prev, cur); ok {
			return merged, keep, ok
		}
		return cancelInverses(prev, cur)
	}
	return c.SetOps(peephole(c.Ops(), c.NumQubits(), merge))
}
