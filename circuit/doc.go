// Package circuit is the circuit engine behind the qbridge boundary.
//
// It owns the gate-level representation of a circuit and the routine that
// turns a mutable builder into its final, immutable transpiled form. The
// engine does not simulate quantum states: a circuit is an ordered sequence
// of operations on numbered wires, and every transformation works on that
// sequence.
//
// # Core Types
//
//   - [Gate]: the operation kinds (H, X, Y, Z, S, T, CX, SWAP, barrier)
//   - [Op]: one gate applied to a list of wires
//   - [Circuit]: the mutable builder, with a fixed qubit count and a layout
//     mapping logical qubits onto physical wires
//   - [Transpiled]: the read-only result of [Transpile]
//
// # Usage
//
//	c, err := circuit.New(2)
//	if err != nil {
//	    return err
//	}
//	_ = c.Append(circuit.GateH, 0)
//	_ = c.Append(circuit.GateCX, 0, 1)
//
//	t, err := circuit.Transpile(c, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(t.QASM())
//
// # Ownership
//
// A Circuit is not safe for concurrent use. Transpile reads its argument and
// never retains it; the caller decides whether the builder lives on.
package circuit
