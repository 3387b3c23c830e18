package main

// #include "qbridge.h"
import "C"

import (
	"fmt"
	"sync"

	"github.com/opd-ai/qbridge"
	"github.com/opd-ai/qbridge/factory"
	"github.com/sirupsen/logrus"
)

// This is the main package required for building as c-shared.
// It exposes the circuit bridge to C callers.

func main() {} // Required for c-shared build mode

// Go names for the C types, usable where cgo types cannot be spelled.
type (
	cCircuit    = C.qc_circuit
	cTranspiled = C.qc_transpiled
	cStatus     = C.qc_status
)

var (
	bridgeOnce sync.Once
	bridge     *qbridge.Bridge
)

// boundary returns the process-wide bridge, building it from the environment
// on first use. A configuration that cannot be honored falls back to defaults
// so the library stays usable.
func boundary() *qbridge.Bridge {
	bridgeOnce.Do(func() {
		b, err := factory.NewBridgeFactory().CreateBridge()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "boundary",
				"error":    err.Error(),
			}).Error("Failed to build configured bridge, falling back to defaults")
			b, _ = qbridge.New(nil)
		}
		bridge = b
	})
	return bridge
}

func goCircuit(h cCircuit) qbridge.CircuitHandle {
	return qbridge.CircuitHandle(uint64(h.token))
}

func cCircuitOf(h qbridge.CircuitHandle) cCircuit {
	return cCircuit{token: C.uint64_t(uint64(h))}
}

func goTranspiled(h cTranspiled) qbridge.TranspiledHandle {
	return qbridge.TranspiledHandle(uint64(h.token))
}

func cTranspiledOf(h qbridge.TranspiledHandle) cTranspiled {
	return cTranspiled{token: C.uint64_t(uint64(h))}
}

func cStatusOf(s qbridge.Status) cStatus {
	return cStatus(int32(s))
}

// recoverCall stops a panic at the C boundary. It must be deferred directly;
// onPanic sets the value returned to C.
func recoverCall(op string, onPanic func()) {
	if r := recover(); r != nil {
		logrus.WithFields(logrus.Fields{
			"function": op,
			"panic":    fmt.Sprint(r),
		}).Error("Recovered panic at C boundary")
		if onPanic != nil {
			onPanic()
		}
	}
}

//export create_circuit
func create_circuit(num_qubits C.uint32_t) (ret C.qc_circuit) {
	defer recoverCall("create_circuit", func() { ret = cCircuit{} })

	h, _ := boundary().CreateCircuit(int(num_qubits))
	return cCircuitOf(h)
}

// create_circuit_ex is create_circuit with a status out-parameter.
//
//export create_circuit_ex
func create_circuit_ex(num_qubits C.uint32_t, status_ptr *C.qc_status) (ret C.qc_circuit) {
	defer recoverCall("create_circuit_ex", func() {
		ret = cCircuit{}
		setStatus(status_ptr, qbridge.StatusEngineFailure)
	})

	h, status := boundary().CreateCircuit(int(num_qubits))
	setStatus(status_ptr, status)
	return cCircuitOf(h)
}

func setStatus(ptr *C.qc_status, status qbridge.Status) {
	if ptr != nil {
		*ptr = cStatusOf(status)
	}
}

// gateCall runs one status-returning bridge call behind panic recovery.
func gateCall(op string, call func(*qbridge.Bridge) qbridge.Status) (ret C.qc_status) {
	defer recoverCall(op, func() { ret = cStatusOf(qbridge.StatusEngineFailure) })
	return cStatusOf(call(boundary()))
}

//export add_hadamard
func add_hadamard(h C.qc_circuit, qubit C.uint32_t) C.qc_status {
	return gateCall("add_hadamard", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddHadamard(goCircuit(h), uint(qubit))
	})
}

//export add_pauli_x
func add_pauli_x(h C.qc_circuit, qubit C.uint32_t) C.qc_status {
	return gateCall("add_pauli_x", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddPauliX(goCircuit(h), uint(qubit))
	})
}

//export add_pauli_y
func add_pauli_y(h C.qc_circuit, qubit C.uint32_t) C.qc_status {
	return gateCall("add_pauli_y", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddPauliY(goCircuit(h), uint(qubit))
	})
}

//export add_pauli_z
func add_pauli_z(h C.qc_circuit, qubit C.uint32_t) C.qc_status {
	return gateCall("add_pauli_z", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddPauliZ(goCircuit(h), uint(qubit))
	})
}

//export add_t
func add_t(h C.qc_circuit, qubit C.uint32_t) C.qc_status {
	return gateCall("add_t", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddT(goCircuit(h), uint(qubit))
	})
}

//export add_s
func add_s(h C.qc_circuit, qubit C.uint32_t) C.qc_status {
	return gateCall("add_s", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddS(goCircuit(h), uint(qubit))
	})
}

//export add_cnot
func add_cnot(h C.qc_circuit, control, target C.uint32_t) C.qc_status {
	return gateCall("add_cnot", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddCNOT(goCircuit(h), uint(control), uint(target))
	})
}

//export add_barrier
func add_barrier(h C.qc_circuit) C.qc_status {
	return gateCall("add_barrier", func(b *qbridge.Bridge) qbridge.Status {
		return b.AddBarrier(goCircuit(h))
	})
}

//export apply_basic_pass
func apply_basic_pass(h C.qc_circuit) C.qc_status {
	return gateCall("apply_basic_pass", func(b *qbridge.Bridge) qbridge.Status {
		return b.ApplyBasicPass(goCircuit(h))
	})
}

//export apply_advanced_pass
func apply_advanced_pass(h C.qc_circuit) C.qc_status {
	return gateCall("apply_advanced_pass", func(b *qbridge.Bridge) qbridge.Status {
		return b.ApplyAdvancedPass(goCircuit(h))
	})
}

// transpile consumes h. The caller must not free or reuse h afterwards,
// whatever the result.
//
//export transpile
func transpile(h C.qc_circuit) (ret C.qc_transpiled) {
	defer recoverCall("transpile", func() { ret = cTranspiled{} })

	th, _ := boundary().Transpile(goCircuit(h))
	return cTranspiledOf(th)
}

// transpile_ex is transpile with a status out-parameter.
//
//export transpile_ex
func transpile_ex(h C.qc_circuit, status_ptr *C.qc_status) (ret C.qc_transpiled) {
	defer recoverCall("transpile_ex", func() {
		ret = cTranspiled{}
		setStatus(status_ptr, qbridge.StatusEngineFailure)
	})

	th, status := boundary().Transpile(goCircuit(h))
	setStatus(status_ptr, status)
	return cTranspiledOf(th)
}

//export free_circuit
func free_circuit(h C.qc_circuit) {
	defer recoverCall("free_circuit", nil)
	boundary().FreeCircuit(goCircuit(h))
}

//export free_transpiled
func free_transpiled(h C.qc_transpiled) {
	defer recoverCall("free_transpiled", nil)
	boundary().FreeTranspiled(goTranspiled(h))
}
