package qbridge

import (
	"fmt"

	"github.com/opd-ai/qbridge/circuit"
	"github.com/opd-ai/qbridge/limits"
	"github.com/opd-ai/qbridge/passes"
	"github.com/opd-ai/qbridge/telemetry"
	"github.com/sirupsen/logrus"
)

// CircuitHandle names a live, mutable circuit owned by the caller.
type CircuitHandle uint64

// TranspiledHandle names a live transpiled circuit owned by the caller.
type TranspiledHandle uint64

const (
	// NullCircuit is the absent circuit handle
	NullCircuit CircuitHandle = 0
	// NullTranspiled is the absent transpiled handle
	NullTranspiled TranspiledHandle = 0
)

// IsNull reports whether h is the null sentinel.
func (h CircuitHandle) IsNull() bool { return h == NullCircuit }

// IsNull reports whether h is the null sentinel.
func (h TranspiledHandle) IsNull() bool { return h == NullTranspiled }

// Bridge is the boundary between foreign callers and the circuit engine. It
// owns every circuit and transpiled circuit it hands out and refers to them
// only through generation-tagged handles.
//
// Handle registries are safe for concurrent use, so independent handles may
// be used from different threads. The objects behind a handle are not
// synchronized: using one handle from two threads at once is the caller's
// responsibility.
type Bridge struct {
	opts       Options
	circuits   *arena[*circuit.Circuit]
	transpiled *arena[*circuit.Transpiled]
	metrics    *telemetry.Metrics
}

// New creates a Bridge. A nil opts uses NewOptions.
func New(opts *Options) (*Bridge, error) {
	if opts == nil {
		opts = NewOptions()
	}
	o := *opts
	if err := o.normalize(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function":   "New",
		"max_qubits": o.MaxQubits,
		"backend":    backendName(&o),
		"basic":      o.Basic.Stages(),
		"advanced":   o.Advanced.Stages(),
	}).Info("Creating circuit bridge")

	return &Bridge{
		opts:       o,
		circuits:   newArena[*circuit.Circuit](kindCircuit),
		transpiled: newArena[*circuit.Transpiled](kindTranspiled),
		metrics:    o.Metrics,
	}, nil
}

func backendName(o *Options) string {
	if o.Backend == nil {
		return "ideal"
	}
	return o.Backend.Name
}

// MaxQubits returns the widest circuit CreateCircuit accepts.
func (b *Bridge) MaxQubits() int { return b.opts.MaxQubits }

// CreateCircuit allocates an empty circuit of numQubits qubits. On an
// invalid width, or one wider than the configured backend, it returns
// NullCircuit and StatusInvalidArgument.
func (b *Bridge) CreateCircuit(numQubits int) (CircuitHandle, Status) {
	const op = "create_circuit"

	if err := limits.ValidateQubitCount(numQubits, b.opts.MaxQubits); err != nil {
		return NullCircuit, b.fail(op, err, logrus.Fields{"num_qubits": numQubits})
	}
	if be := b.opts.Backend; be != nil && numQubits > be.NumQubits {
		err := fmt.Errorf("%w: circuit of %d qubits exceeds backend %q (%d qubits)",
			limits.ErrQubitCount, numQubits, be.Name, be.NumQubits)
		return NullCircuit, b.fail(op, err, logrus.Fields{"num_qubits": numQubits, "backend": be.Name})
	}
	c, err := circuit.New(numQubits)
	if err != nil {
		return NullCircuit, b.fail(op, err, logrus.Fields{"num_qubits": numQubits})
	}

	h := CircuitHandle(b.circuits.insert(c))
	b.metrics.SetLive(telemetry.KindCircuit, b.circuits.len())
	b.succeed(op, logrus.Fields{
		"handle":     fmt.Sprintf("%#x", uint64(h)),
		"circuit_id": c.ID().String(),
		"num_qubits": numQubits,
	})
	return h, StatusOK
}

// AddHadamard appends H on qubit.
func (b *Bridge) AddHadamard(h CircuitHandle, qubit uint) Status {
	return b.addGate("add_hadamard", h, circuit.GateH, qubit)
}

// AddPauliX appends X on qubit.
func (b *Bridge) AddPauliX(h CircuitHandle, qubit uint) Status {
	return b.addGate("add_pauli_x", h, circuit.GateX, qubit)
}

// AddPauliY appends Y on qubit.
func (b *Bridge) AddPauliY(h CircuitHandle, qubit uint) Status {
	return b.addGate("add_pauli_y", h, circuit.GateY, qubit)
}

// AddPauliZ appends Z on qubit.
func (b *Bridge) AddPauliZ(h CircuitHandle, qubit uint) Status {
	return b.addGate("add_pauli_z", h, circuit.GateZ, qubit)
}

// AddS appends S on qubit.
func (b *Bridge) AddS(h CircuitHandle, qubit uint) Status {
	return b.addGate("add_s", h, circuit.GateS, qubit)
}

// AddT appends T on qubit.
func (b *Bridge) AddT(h CircuitHandle, qubit uint) Status {
	return b.addGate("add_t", h, circuit.GateT, qubit)
}

// AddCNOT appends CX with the given control and target. Either index out of
// range yields StatusInvalidIndex and nothing is appended; control equal to
// target yields StatusInvalidArgument.
func (b *Bridge) AddCNOT(h CircuitHandle, control, target uint) Status {
	return b.addGate("add_cnot", h, circuit.GateCX, control, target)
}

// AddBarrier appends a barrier across every qubit.
func (b *Bridge) AddBarrier(h CircuitHandle) Status {
	return b.addGate("add_barrier", h, circuit.GateBarrier)
}

// addGate validates the handle, then every index, and only then touches the circuit.
func (b *Bridge) addGate(op string, h CircuitHandle, g circuit.Gate, qubits ...uint) Status {
	c, err := b.circuits.get(uint64(h))
	if err != nil {
		return b.fail(op, err, handleFields(uint64(h)))
	}

	n := c.NumQubits()
	idx := make([]int, len(qubits))
	for i, q := range qubits {
		if q >= uint(n) {
			err := fmt.Errorf("%w: index %d not in [0, %d)", limits.ErrQubitIndex, q, n)
			return b.fail(op, err, logrus.Fields{
				"handle":     fmt.Sprintf("%#x", uint64(h)),
				"qubits":     qubits,
				"num_qubits": n,
			})
		}
		idx[i] = int(q)
	}

	if err := c.Append(g, idx...); err != nil {
		return b.fail(op, err, logrus.Fields{"handle": fmt.Sprintf("%#x", uint64(h)), "qubits": qubits})
	}
	b.succeed(op, logrus.Fields{"handle": fmt.Sprintf("%#x", uint64(h)), "qubits": qubits})
	return StatusOK
}

// ApplyBasicPass runs the basic pass group on the circuit in place.
func (b *Bridge) ApplyBasicPass(h CircuitHandle) Status {
	return b.applyPipeline("apply_basic_pass", h, b.opts.Basic)
}

// ApplyAdvancedPass runs the advanced pass group on the circuit in place.
func (b *Bridge) ApplyAdvancedPass(h CircuitHandle) Status {
	return b.applyPipeline("apply_advanced_pass", h, b.opts.Advanced)
}

// applyPipeline replaces the circuit's contents with the pipeline result. On
// failure the circuit keeps its previous contents.
func (b *Bridge) applyPipeline(op string, h CircuitHandle, p *passes.Pipeline) Status {
	c, err := b.circuits.get(uint64(h))
	if err != nil {
		return b.fail(op, err, handleFields(uint64(h)))
	}

	out, err := p.Apply(c)
	b.metrics.ObservePipeline(p.Name(), err)
	if err != nil {
		b.metrics.ObserveCall(op, StatusEngineFailure.String())
		logrus.WithFields(logrus.Fields{
			"function":   op,
			"handle":     fmt.Sprintf("%#x", uint64(h)),
			"circuit_id": c.ID().String(),
			"pipeline":   p.Name(),
			"error":      err.Error(),
		}).Error("Pass pipeline failed, circuit left unchanged")
		return StatusEngineFailure
	}

	*c = *out
	b.succeed(op, logrus.Fields{
		"handle":     fmt.Sprintf("%#x", uint64(h)),
		"pipeline":   p.Name(),
		"operations": c.Len(),
	})
	return StatusOK
}

// Transpile consumes the circuit and returns its transpiled form. Once h is
// non-null it is invalid after the call whatever the outcome; it must not be
// freed. On engine failure the result is NullTranspiled with
// StatusEngineFailure.
func (b *Bridge) Transpile(h CircuitHandle) (TranspiledHandle, Status) {
	const op = "transpile"

	c, err := b.circuits.take(uint64(h))
	if err != nil {
		return NullTranspiled, b.fail(op, err, handleFields(uint64(h)))
	}
	b.metrics.SetLive(telemetry.KindCircuit, b.circuits.len())

	t, err := circuit.Transpile(c, b.opts.Backend)
	if err != nil {
		b.metrics.ObserveCall(op, StatusEngineFailure.String())
		logrus.WithFields(logrus.Fields{
			"function":   op,
			"handle":     fmt.Sprintf("%#x", uint64(h)),
			"circuit_id": c.ID().String(),
			"error":      err.Error(),
		}).Error("Transpilation failed, input circuit consumed")
		return NullTranspiled, StatusEngineFailure
	}

	th := TranspiledHandle(b.transpiled.insert(t))
	b.metrics.SetLive(telemetry.KindTranspiled, b.transpiled.len())
	b.succeed(op, logrus.Fields{
		"handle":      fmt.Sprintf("%#x", uint64(h)),
		"transpiled":  fmt.Sprintf("%#x", uint64(th)),
		"circuit_id":  c.ID().String(),
		"num_qubits":  t.NumQubits(),
		"operations":  t.Len(),
		"fingerprint": t.FingerprintHex()[:16],
	})
	return th, StatusOK
}

// FreeCircuit releases the circuit. Freeing NullCircuit is a no-op returning
// StatusOK; freeing a handle twice or after Transpile returns
// StatusStaleHandle and changes nothing.
func (b *Bridge) FreeCircuit(h CircuitHandle) Status {
	const op = "free_circuit"
	if h.IsNull() {
		return StatusOK
	}
	if _, err := b.circuits.take(uint64(h)); err != nil {
		return b.fail(op, err, handleFields(uint64(h)))
	}
	b.metrics.SetLive(telemetry.KindCircuit, b.circuits.len())
	b.succeed(op, handleFields(uint64(h)))
	return StatusOK
}

// FreeTranspiled releases the transpiled circuit, with the same contract as FreeCircuit.
func (b *Bridge) FreeTranspiled(h TranspiledHandle) Status {
	const op = "free_transpiled"
	if h.IsNull() {
		return StatusOK
	}
	if _, err := b.transpiled.take(uint64(h)); err != nil {
		return b.fail(op, err, handleFields(uint64(h)))
	}
	b.metrics.SetLive(telemetry.KindTranspiled, b.transpiled.len())
	b.succeed(op, handleFields(uint64(h)))
	return StatusOK
}

// CircuitNumQubits returns the circuit's qubit count.
func (b *Bridge) CircuitNumQubits(h CircuitHandle) (int, Status) {
	c, err := b.circuits.get(uint64(h))
	if err != nil {
		return 0, b.fail("circuit_num_qubits", err, handleFields(uint64(h)))
	}
	return c.NumQubits(), StatusOK
}

// CircuitOps returns a copy of the circuit's operation sequence.
func (b *Bridge) CircuitOps(h CircuitHandle) ([]circuit.Op, Status) {
	c, err := b.circuits.get(uint64(h))
	if err != nil {
		return nil, b.fail("circuit_ops", err, handleFields(uint64(h)))
	}
	return c.Ops(), StatusOK
}

// Transpiled returns the read-only transpiled circuit behind h. The result
// must not be used after h is freed.
func (b *Bridge) Transpiled(h TranspiledHandle) (*circuit.Transpiled, Status) {
	t, err := b.transpiled.get(uint64(h))
	if err != nil {
		return nil, b.fail("transpiled", err, handleFields(uint64(h)))
	}
	return t, StatusOK
}

// LiveCircuits returns the number of circuits neither freed nor transpiled.
func (b *Bridge) LiveCircuits() int { return b.circuits.len() }

// LiveTranspiled returns the number of transpiled circuits not yet freed.
func (b *Bridge) LiveTranspiled() int { return b.transpiled.len() }

func handleFields(tok uint64) logrus.Fields {
	return logrus.Fields{"handle": fmt.Sprintf("%#x", tok)}
}

// fail logs err at a level matching who is at fault and returns its status.
func (b *Bridge) fail(op string, err error, fields logrus.Fields) Status {
	status := StatusFromError(err)
	b.metrics.ObserveCall(op, status.String())

	entry := logrus.WithFields(fields).WithFields(logrus.Fields{
		"function": op,
		"status":   status.String(),
		"error":    err.Error(),
	})
	if status == StatusEngineFailure {
		entry.Error("Engine operation failed")
	} else {
		entry.Warn("Rejected boundary call")
	}
	return status
}

func (b *Bridge) succeed(op string, fields logrus.Fields) {
	b.metrics.ObserveCall(op, StatusOK.String())
	logrus.WithFields(fields).WithField("function", op).Debug("Boundary call succeeded")
}
