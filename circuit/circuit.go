package circuit

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opd-ai/qbridge/limits"
)

// ErrInvalidOperation indicates a gate that cannot be placed as requested
var ErrInvalidOperation = errors.New("invalid operation")

// Circuit is a mutable circuit builder with a fixed number of qubits.
//
// Operations are stored on physical wires. Gates appended through Append
// address logical qubits and are placed on the wire the layout currently
// assigns to each of them; the layout is the identity until routing moves
// qubits around.
type Circuit struct {
	id        uuid.UUID
	numQubits int
	ops       []Op
	layout    []int
	pruneIdle bool
}

// New allocates an empty circuit of numQubits qubits.
func New(numQubits int) (*Circuit, error) {
	if err := limits.ValidateQubitCount(numQubits, limits.MaxQubits); err != nil {
		return nil, err
	}
	layout := make([]int, numQubits)
	for i := range layout {
		layout[i] = i
	}
	return &Circuit{
		id:        uuid.New(),
		numQubits: numQubits,
		layout:    layout,
	}, nil
}

// ID returns the circuit's identity, carried into its transpiled form.
func (c *Circuit) ID() uuid.UUID { return c.id }

// NumQubits returns the qubit count fixed at creation.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Len returns the number of operations.
func (c *Circuit) Len() int { return len(c.ops) }

// Ops returns a copy of the operation sequence.
func (c *Circuit) Ops() []Op { return cloneOps(c.ops) }

// Layout returns a copy of the logical to physical qubit assignment.
func (c *Circuit) Layout() []int { return append([]int(nil), c.layout...) }

// Depth returns the ASAP depth of the operation sequence.
func (c *Circuit) Depth() int { return Depth(c.ops, c.numQubits) }

// Append places g on the given logical qubits. A barrier with no qubits spans
// every qubit.
func (c *Circuit) Append(g Gate, qubits ...int) error {
	if g == GateBarrier && len(qubits) == 0 {
		qubits = make([]int, c.numQubits)
		for i := range qubits {
			qubits[i] = i
		}
	}
	if err := c.checkOp(g, qubits); err != nil {
		return err
	}
	if err := limits.ValidateOperationCount(len(c.ops) + 1); err != nil {
		return err
	}

	physical := make([]int, len(qubits))
	for i, q := range qubits {
		physical[i] = c.layout[q]
	}
	c.ops = append(c.ops, Op{Gate: g, Qubits: physical})
	return nil
}

// checkOp validates arity, range and distinctness of qubits for g.
func (c *Circuit) checkOp(g Gate, qubits []int) error {
	if _, ok := gateNames[g]; !ok {
		return fmt.Errorf("%w: unknown gate %d", ErrInvalidOperation, uint8(g))
	}
	if arity := g.Arity(); arity != 0 && len(qubits) != arity {
		return fmt.Errorf("%w: %s takes %d qubits, got %d", ErrInvalidOperation, g, arity, len(qubits))
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if err := limits.ValidateQubitIndex(q, c.numQubits); err != nil {
			return err
		}
		if seen[q] {
			return fmt.Errorf("%w: %s repeats qubit %d", ErrInvalidOperation, g, q)
		}
		seen[q] = true
	}
	return nil
}

// SetOps replaces the operation sequence. The ops address physical wires.
func (c *Circuit) SetOps(ops []Op) error {
	if err := limits.ValidateOperationCount(len(ops)); err != nil {
		return err
	}
	for _, op := range ops {
		if err := c.checkOp(op.Gate, op.Qubits); err != nil {
			return err
		}
	}
	c.ops = cloneOps(ops)
	return nil
}

// SetLayout replaces the logical to physical qubit assignment. layout must be
// a permutation of [0, NumQubits).
func (c *Circuit) SetLayout(layout []int) error {
	if len(layout) != c.numQubits {
		return fmt.Errorf("%w: layout has %d entries for %d qubits", ErrInvalidOperation, len(layout), c.numQubits)
	}
	seen := make([]bool, c.numQubits)
	for _, p := range layout {
		if err := limits.ValidateQubitIndex(p, c.numQubits); err != nil {
			return err
		}
		if seen[p] {
			return fmt.Errorf("%w: layout maps two qubits to wire %d", ErrInvalidOperation, p)
		}
		seen[p] = true
	}
	c.layout = append([]int(nil), layout...)
	return nil
}

// MarkIdleWiresForRemoval requests that wires without operations be dropped
// when the circuit is transpiled. The qubit count of the builder is unchanged.
func (c *Circuit) MarkIdleWiresForRemoval() { c.pruneIdle = true }

// PrunesIdleWires reports whether idle wires will be dropped on transpile.
func (c *Circuit) PrunesIdleWires() bool { return c.pruneIdle }

// ActiveWires reports, per physical wire, whether any non-barrier operation uses it.
func (c *Circuit) ActiveWires() []bool {
	active := make([]bool, c.numQubits)
	for _, op := range c.ops {
		if op.Gate == GateBarrier {
			continue
		}
		for _, q := range op.Qubits {
			active[q] = true
		}
	}
	return active
}

// Clone returns a deep copy of c with the same identity.
func (c *Circuit) Clone() *Circuit {
	return &Circuit{
		id:        c.id,
		numQubits: c.numQubits,
		ops:       cloneOps(c.ops),
		layout:    append([]int(nil), c.layout...),
		pruneIdle: c.pruneIdle,
	}
}

// Depth returns the ASAP depth of ops over width wires. Barriers align the
// wires they span without adding a layer.
func Depth(ops []Op, width int) int {
	level := make([]int, width)
	depth := 0
	for _, op := range ops {
		d := 0
		for _, q := range op.Qubits {
			if level[q] > d {
				d = level[q]
			}
		}
		if op.Gate != GateBarrier {
			d++
		}
		for _, q := range op.Qubits {
			level[q] = d
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}
