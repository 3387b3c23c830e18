package main

// #include "qbridge.h"
import "C"

import (
	"sync"
	"unsafe"

	"github.com/opd-ai/qbridge"
	"github.com/opd-ai/qbridge/circuit"
)

type (
	cSize  = C.size_t
	cInt64 = C.int64_t
)

// Inspectors return a non-negative count, or a negative status.

func countOrStatus(n int, status qbridge.Status) cInt64 {
	if status != qbridge.StatusOK {
		return cInt64(status)
	}
	return cInt64(n)
}

// inspectCall runs a count-returning bridge call behind panic recovery.
func inspectCall(op string, call func(*qbridge.Bridge) (int, qbridge.Status)) (ret C.int64_t) {
	defer recoverCall(op, func() { ret = C.int64_t(qbridge.StatusEngineFailure) })
	return countOrStatus(call(boundary()))
}

func transpiledCall(op string, h C.qc_transpiled, call func(*circuit.Transpiled) (int, qbridge.Status)) C.int64_t {
	return inspectCall(op, func(b *qbridge.Bridge) (int, qbridge.Status) {
		t, status := b.Transpiled(goTranspiled(h))
		if status != qbridge.StatusOK {
			return 0, status
		}
		return call(t)
	})
}

//export circuit_num_qubits
func circuit_num_qubits(h C.qc_circuit) C.int64_t {
	return inspectCall("circuit_num_qubits", func(b *qbridge.Bridge) (int, qbridge.Status) {
		return b.CircuitNumQubits(goCircuit(h))
	})
}

//export circuit_num_ops
func circuit_num_ops(h C.qc_circuit) C.int64_t {
	return inspectCall("circuit_num_ops", func(b *qbridge.Bridge) (int, qbridge.Status) {
		ops, status := b.CircuitOps(goCircuit(h))
		return len(ops), status
	})
}

//export transpiled_num_qubits
func transpiled_num_qubits(h C.qc_transpiled) C.int64_t {
	return transpiledCall("transpiled_num_qubits", h, func(t *circuit.Transpiled) (int, qbridge.Status) {
		return t.NumQubits(), qbridge.StatusOK
	})
}

//export transpiled_num_ops
func transpiled_num_ops(h C.qc_transpiled) C.int64_t {
	return transpiledCall("transpiled_num_ops", h, func(t *circuit.Transpiled) (int, qbridge.Status) {
		return t.Len(), qbridge.StatusOK
	})
}

//export transpiled_depth
func transpiled_depth(h C.qc_transpiled) C.int64_t {
	return transpiledCall("transpiled_depth", h, func(t *circuit.Transpiled) (int, qbridge.Status) {
		return t.Depth(), qbridge.StatusOK
	})
}

// copyOut writes src into the caller's buffer. A nil buf is a size query and
// returns the bytes needed; otherwise buf must hold len(src) plus the
// terminator when terminate is set.
func copyOut(src []byte, buf unsafe.Pointer, capacity cSize, terminate bool) (int, qbridge.Status) {
	if buf == nil {
		return len(src), qbridge.StatusOK
	}
	need := len(src)
	if terminate {
		need++
	}
	if uint64(capacity) < uint64(need) {
		return 0, qbridge.StatusBufferTooSmall
	}
	dst := unsafe.Slice((*byte)(buf), need)
	copy(dst, src)
	if terminate {
		dst[len(src)] = 0
	}
	return len(src), qbridge.StatusOK
}

// transpiled_qasm copies the OpenQASM 2.0 text and a NUL terminator into buf
// and returns the text length. Pass a NULL buf to learn the length.
//
//export transpiled_qasm
func transpiled_qasm(h C.qc_transpiled, buf unsafe.Pointer, capacity C.size_t) C.int64_t {
	return transpiledCall("transpiled_qasm", h, func(t *circuit.Transpiled) (int, qbridge.Status) {
		return copyOut([]byte(t.QASM()), buf, capacity, true)
	})
}

// transpiled_fingerprint copies the 32-byte BLAKE2b-256 digest of the QASM
// text into buf and returns 32.
//
//export transpiled_fingerprint
func transpiled_fingerprint(h C.qc_transpiled, buf unsafe.Pointer, capacity C.size_t) C.int64_t {
	return transpiledCall("transpiled_fingerprint", h, func(t *circuit.Transpiled) (int, qbridge.Status) {
		sum := t.Fingerprint()
		return copyOut(sum[:], buf, capacity, false)
	})
}

//export qc_live_circuits
func qc_live_circuits() C.int64_t {
	return inspectCall("qc_live_circuits", func(b *qbridge.Bridge) (int, qbridge.Status) {
		return b.LiveCircuits(), qbridge.StatusOK
	})
}

//export qc_live_transpiled
func qc_live_transpiled() C.int64_t {
	return inspectCall("qc_live_transpiled", func(b *qbridge.Bridge) (int, qbridge.Status) {
		return b.LiveTranspiled(), qbridge.StatusOK
	})
}

var (
	statusStringsMu sync.Mutex
	statusStrings   = make(map[string]*C.char)
)

// qc_status_string returns a static description of status. The string is
// owned by the library and must not be freed.
//
//export qc_status_string
func qc_status_string(status C.qc_status) *C.char {
	text := statusText(qbridge.Status(int32(status)))

	statusStringsMu.Lock()
	defer statusStringsMu.Unlock()

	if p, ok := statusStrings[text]; ok {
		return p
	}
	p := C.CString(text)
	statusStrings[text] = p
	return p
}

func statusText(s qbridge.Status) string {
	switch s {
	case qbridge.StatusOK, qbridge.StatusNullHandle, qbridge.StatusInvalidIndex,
		qbridge.StatusStaleHandle, qbridge.StatusEngineFailure,
		qbridge.StatusInvalidArgument, qbridge.StatusBufferTooSmall:
		return s.String()
	default:
		return "unknown status"
	}
}
