package passes

import "github.com/opd-ai/qbridge/circuit"

// RemoveRedundantGates cancels wire-adjacent pairs of identical self-inverse gates.
type RemoveRedundantGates struct{}

// Name implements Pass.
func (RemoveRedundantGates) Name() string { return "remove_redundant_gates" }

// Run implements Pass.
func (RemoveRedundantGates) Run(c *circuit.Circuit) error {
	return c.SetOps(peephole(c.Ops(), c.NumQubits(), cancelInverses))
}

// RemoveIdleWires marks the circuit so wires without gates are dropped on transpile.
type RemoveIdleWires struct{}

// Name implements Pass.
func (RemoveIdleWires) Name() string { return "remove_idle_wires" }

// Run implements Pass.
func (RemoveIdleWires) Run(c *circuit.Circuit) error {
	c.MarkIdleWiresForRemoval()
	return nil
}

// RemoveBarriers deletes every barrier.
type RemoveBarriers struct{}

// Name implements Pass.
func (RemoveBarriers) Name() string { return "remove_barriers" }

// Run implements Pass.
func (RemoveBarriers) Run(c *circuit.Circuit) error {
	ops := c.Ops()
	kept := ops[:0]
	for _, op := range ops {
		if op.Gate != circuit.GateBarrier {
			kept = append(kept, op)
		}
	}
	return c.SetOps(kept)
}
