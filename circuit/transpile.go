package circuit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/opd-ai/qbridge/backend"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// ErrTranspile indicates the engine could not produce a transpiled circuit
var ErrTranspile = errors.New("transpilation failed")

// Transpiled is the final, read-only form of a circuit.
type Transpiled struct {
	source      uuid.UUID
	numQubits   int
	ops         []Op
	layout      []int
	physical    []int
	depth       int
	qasm        string
	fingerprint [blake2b.Size256]byte
}

// Transpile converts c into its final form for target. A nil target is an
// ideal device with no width limit. When idle-wire removal was requested,
// wires carrying no gates are dropped and the remaining ones renumbered in
// order. With a target, every two-qubit operation must act on a coupled
// pair of backend qubits. c is only read.
func Transpile(c *Circuit, target *backend.Backend) (*Transpiled, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil circuit", ErrTranspile)
	}
	if target != nil && c.numQubits > target.NumQubits {
		return nil, fmt.Errorf("%w: circuit needs %d qubits, backend %q has %d",
			ErrTranspile, c.numQubits, target.Name, target.NumQubits)
	}
	if target != nil {
		for _, op := range c.ops {
			if op.Gate.Arity() == 2 && !target.Coupled(op.Qubits[0], op.Qubits[1]) {
				return nil, fmt.Errorf("%w: %s acts on uncoupled qubits of backend %q",
					ErrTranspile, op, target.Name)
			}
		}
	}

	wireMap := make([]int, c.numQubits)
	physical := make([]int, 0, c.numQubits)
	if c.pruneIdle {
		for w, used := range c.ActiveWires() {
			wireMap[w] = -1
			if used {
				wireMap[w] = len(physical)
				physical = append(physical, w)
			}
		}
	} else {
		for w := range wireMap {
			wireMap[w] = w
			physical = append(physical, w)
		}
	}
	width := len(physical)

	ops := make([]Op, 0, len(c.ops))
	for _, op := range c.ops {
		qubits := make([]int, 0, len(op.Qubits))
		for _, q := range op.Qubits {
			if wireMap[q] >= 0 {
				qubits = append(qubits, wireMap[q])
			}
		}
		if len(qubits) == 0 {
			continue
		}
		ops = append(ops, Op{Gate: op.Gate, Qubits: qubits})
	}

	layout := make([]int, c.numQubits)
	for l, p := range c.layout {
		layout[l] = wireMap[p]
	}

	qasm := RenderQASM(width, ops)
	t := &Transpiled{
		source:      c.id,
		numQubits:   width,
		ops:         ops,
		layout:      layout,
		physical:    physical,
		depth:       Depth(ops, width),
		qasm:        qasm,
		fingerprint: blake2b.Sum256([]byte(qasm)),
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Transpile",
		"circuit_id":  c.id.String(),
		"num_qubits":  t.numQubits,
		"operations":  len(t.ops),
		"depth":       t.depth,
		"fingerprint": t.FingerprintHex()[:16],
	}).Debug("Transpiled circuit")

	return t, nil
}

// SourceID returns the identity of the circuit this was produced from.
func (t *Transpiled) SourceID() uuid.UUID { return t.source }

// NumQubits returns the output width.
func (t *Transpiled) NumQubits() int { return t.numQubits }

// Len returns the number of operations.
func (t *Transpiled) Len() int { return len(t.ops) }

// Ops returns a copy of the operation sequence.
func (t *Transpiled) Ops() []Op { return cloneOps(t.ops) }

// Layout returns, per logical qubit of the source circuit, its output wire
// or -1 when the wire was pruned.
func (t *Transpiled) Layout() []int { return append([]int(nil), t.layout...) }

// PhysicalQubits returns, per output wire, the source wire it was taken
// from. Source wires are backend qubits, so after pruning this is how output
// indices map back onto the device.
func (t *Transpiled) PhysicalQubits() []int { return append([]int(nil), t.physical...) }

// Depth returns the ASAP depth.
func (t *Transpiled) Depth() int { return t.depth }

// QASM returns the OpenQASM 2.0 rendering.
func (t *Transpiled) QASM() string { return t.qasm }

// Fingerprint returns the BLAKE2b-256 digest of the QASM rendering.
func (t *Transpiled) Fingerprint() [blake2b.Size256]byte { return t.fingerprint }

// FingerprintHex returns Fingerprint as lowercase hex.
func (t *Transpiled) FingerprintHex() string { return hex.EncodeToString(t.fingerprint[:]) }

// RenderQASM renders ops over width wires as an OpenQASM 2.0 program.
func RenderQASM(width int, ops []Op) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	if width > 0 {
		fmt.Fprintf(&sb, "qreg q[%d];\n", width)
	}
	for _, op := range ops {
		sb.WriteString(op.String())
		sb.WriteString(";\n")
	}
	return sb.String()
}
