package circuit

import (
	"fmt"
	"strings"
)

// Gate identifies an operation kind.
type Gate uint8

const (
	// GateH is the Hadamard gate
	GateH Gate = iota + 1
	// GateX is the Pauli-X gate
	GateX
	// GateY is the Pauli-Y gate
	GateY
	// GateZ is the Pauli-Z gate
	GateZ
	// GateS is the phase gate
	GateS
	// GateT is the pi/8 gate
	GateT
	// GateCX is the controlled-NOT gate, qubits are control then target
	GateCX
	// GateSwap exchanges two wires; inserted by routing
	GateSwap
	// GateBarrier blocks optimization across the wires it spans
	GateBarrier
)

var gateNames = map[Gate]string{
	GateH:       "h",
	GateX:       "x",
	GateY:       "y",
	GateZ:       "z",
	GateS:       "s",
	GateT:       "t",
	GateCX:      "cx",
	GateSwap:    "swap",
	GateBarrier: "barrier",
}

// String returns the OpenQASM mnemonic of the gate.
func (g Gate) String() string {
	if name, ok := gateNames[g]; ok {
		return name
	}
	return fmt.Sprintf("gate(%d)", uint8(g))
}

// ParseGate returns the gate with the given OpenQASM mnemonic.
func ParseGate(name string) (Gate, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for g, n := range gateNames {
		if n == name {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown gate %q", ErrInvalidOperation, name)
}

// Arity returns the number of wires the gate acts on; zero means any number
// (barrier).
func (g Gate) Arity() int {
	switch g {
	case GateH, GateX, GateY, GateZ, GateS, GateT:
		return 1
	case GateCX, GateSwap:
		return 2
	default:
		return 0
	}
}

// SelfInverse reports whether applying the gate twice is the identity.
func (g Gate) SelfInverse() bool {
	switch g {
	case GateH, GateX, GateY, GateZ, GateCX, GateSwap:
		return true
	default:
		return false
	}
}

// Op is one gate applied to an ordered list of wires.
type Op struct {
	Gate   Gate
	Qubits []int
}

// Equal reports whether o and p apply the same gate to the same wires in the same order.
func (o Op) Equal(p Op) bool {
	if o.Gate != p.Gate || len(o.Qubits) != len(p.Qubits) {
		return false
	}
	for i := range o.Qubits {
		if o.Qubits[i] != p.Qubits[i] {
			return false
		}
	}
	return true
}

// String renders the op as an OpenQASM statement without the trailing semicolon.
func (o Op) String() string {
	var sb strings.Builder
	sb.WriteString(o.Gate.String())
	for i, q := range o.Qubits {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	return sb.String()
}

func (o Op) clone() Op {
	return Op{Gate: o.Gate, Qubits: append([]int(nil), o.Qubits...)}
}

func cloneOps(ops []Op) []Op {
	out := make([]Op, len(ops))
	for i, op := range ops {
		out[i] = op.clone()
	}
	return out
}
