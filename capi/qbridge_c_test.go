//go:build cgo

package main

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/opd-ai/qbridge"
)

func status(s cStatus) qbridge.Status { return qbridge.Status(int32(s)) }

// liveDelta reports how many handles of each kind a test left behind.
func liveDelta(t *testing.T) func() {
	t.Helper()
	circuits, transpiled := qc_live_circuits(), qc_live_transpiled()
	return func() {
		t.Helper()
		if got := qc_live_circuits(); got != circuits {
			t.Errorf("live circuits changed from %d to %d", circuits, got)
		}
		if got := qc_live_transpiled(); got != transpiled {
			t.Errorf("live transpiled changed from %d to %d", transpiled, got)
		}
	}
}

func goString(p unsafe.Pointer) string {
	var b []byte
	for i := 0; ; i++ {
		c := *(*byte)(unsafe.Add(p, i))
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
	}
}

// TestBellCircuitEndToEnd drives the documented lifecycle through the C surface
func TestBellCircuitEndToEnd(t *testing.T) {
	defer liveDelta(t)()

	h := create_circuit(2)
	if h.token == 0 {
		t.Fatal("create_circuit returned the null handle")
	}
	if got := status(add_hadamard(h, 0)); got != qbridge.StatusOK {
		t.Errorf("add_hadamard: got %v", got)
	}
	if got := status(add_cnot(h, 0, 1)); got != qbridge.StatusOK {
		t.Errorf("add_cnot: got %v", got)
	}
	if got := status(apply_basic_pass(h)); got != qbridge.StatusOK {
		t.Errorf("apply_basic_pass: got %v", got)
	}

	th := transpile(h)
	if th.token == 0 {
		t.Fatal("transpile returned the null handle")
	}
	if n := transpiled_num_ops(th); n != 2 {
		t.Errorf("expected 2 transpiled ops, got %d", n)
	}
	if d := transpiled_depth(th); d != 2 {
		t.Errorf("expected depth 2, got %d", d)
	}
	free_transpiled(th)
}

func TestCNOTOutOfRangeOnSingleQubit(t *testing.T) {
	defer liveDelta(t)()

	h := create_circuit(1)
	defer free_circuit(h)

	if got := status(add_cnot(h, 0, 1)); got != qbridge.StatusInvalidIndex {
		t.Errorf("expected invalid index, got %v", got)
	}
	if n := circuit_num_ops(h); n != 0 {
		t.Errorf("rejected gate was appended: %d ops", n)
	}
}

func TestNullHandles(t *testing.T) {
	defer liveDelta(t)()

	var null cCircuit
	calls := map[string]func() cStatus{
		"add_hadamard":        func() cStatus { return add_hadamard(null, 0) },
		"add_pauli_x":         func() cStatus { return add_pauli_x(null, 0) },
		"add_pauli_y":         func() cStatus { return add_pauli_y(null, 0) },
		"add_pauli_z":         func() cStatus { return add_pauli_z(null, 0) },
		"add_t":               func() cStatus { return add_t(null, 0) },
		"add_s":               func() cStatus { return add_s(null, 0) },
		"add_cnot":            func() cStatus { return add_cnot(null, 0, 1) },
		"add_barrier":         func() cStatus { return add_barrier(null) },
		"apply_basic_pass":    func() cStatus { return apply_basic_pass(null) },
		"apply_advanced_pass": func() cStatus { return apply_advanced_pass(null) },
	}
	for name, call := range calls {
		if got := status(call()); got != qbridge.StatusNullHandle {
			t.Errorf("%s(null): expected null handle status, got %v", name, got)
		}
	}

	var st cStatus
	if th := transpile_ex(null, &st); th.token != 0 || status(st) != qbridge.StatusNullHandle {
		t.Errorf("transpile_ex(null) = %#x, %v", uint64(th.token), status(st))
	}
	if th := transpile(null); th.token != 0 {
		t.Error("transpile(null) returned a non-null handle")
	}
	if n := circuit_num_qubits(null); qbridge.Status(n) != qbridge.StatusNullHandle {
		t.Errorf("circuit_num_qubits(null) = %d", n)
	}

	// no-ops
	free_circuit(null)
	free_transpiled(cTranspiled{})
}

func TestCreateCircuitEx(t *testing.T) {
	defer liveDelta(t)()

	var st cStatus
	h := create_circuit_ex(0, &st)
	if h.token != 0 || status(st) != qbridge.StatusInvalidArgument {
		t.Errorf("create_circuit_ex(0) = %#x, %v", uint64(h.token), status(st))
	}
	if h := create_circuit(0); h.token != 0 {
		t.Error("create_circuit(0) returned a non-null handle")
	}

	h = create_circuit_ex(3, &st)
	if h.token == 0 || status(st) != qbridge.StatusOK {
		t.Fatalf("create_circuit_ex(3) = %#x, %v", uint64(h.token), status(st))
	}
	if n := circuit_num_qubits(h); n != 3 {
		t.Errorf("expected 3 qubits, got %d", n)
	}
	free_circuit(h)

	// a nil status pointer is allowed
	free_circuit(create_circuit_ex(1, nil))
}

func TestTranspileConsumesInput(t *testing.T) {
	defer liveDelta(t)()

	h := create_circuit(2)
	add_pauli_x(h, 1)

	var st cStatus
	th := transpile_ex(h, &st)
	if status(st) != qbridge.StatusOK || th.token == 0 {
		t.Fatalf("transpile_ex = %#x, %v", uint64(th.token), status(st))
	}
	defer free_transpiled(th)

	if got := status(add_hadamard(h, 0)); got != qbridge.StatusStaleHandle {
		t.Errorf("use after transpile: expected stale handle, got %v", got)
	}
	if again := transpile_ex(h, &st); again.token != 0 || status(st) != qbridge.StatusStaleHandle {
		t.Errorf("second transpile = %#x, %v", uint64(again.token), status(st))
	}
	// freeing a consumed handle is logged, not fatal
	free_circuit(h)

	// a transpiled token is never accepted as a circuit
	forged := cCircuit{token: th.token}
	if got := status(add_hadamard(forged, 0)); got != qbridge.StatusStaleHandle {
		t.Errorf("forged handle: expected stale handle, got %v", got)
	}
}

func TestDoubleFreeIsHarmless(t *testing.T) {
	defer liveDelta(t)()

	h := create_circuit(1)
	free_circuit(h)
	free_circuit(h)

	th := transpile(create_circuit(1))
	free_transpiled(th)
	free_transpiled(th)
	if n := transpiled_num_qubits(th); qbridge.Status(n) != qbridge.StatusStaleHandle {
		t.Errorf("inspecting a freed handle: got %d", n)
	}
}

func TestTranspiledQASMBuffer(t *testing.T) {
	defer liveDelta(t)()

	h := create_circuit(2)
	add_hadamard(h, 0)
	add_cnot(h, 0, 1)
	th := transpile(h)
	defer free_transpiled(th)

	const want = "OPENQASM 2.0;\ninclude \"qelib1.inc\";\nqreg q[2];\nh q[0];\ncx q[0],q[1];\n"

	n := transpiled_qasm(th, nil, 0)
	if n != cInt64(len(want)) {
		t.Fatalf("size query: expected %d, got %d", len(want), n)
	}

	small := make([]byte, len(want))
	if got := transpiled_qasm(th, unsafe.Pointer(&small[0]), cSize(len(small))); qbridge.Status(got) != qbridge.StatusBufferTooSmall {
		t.Errorf("no room for terminator: expected buffer too small, got %d", got)
	}

	buf := make([]byte, len(want)+1)
	if got := transpiled_qasm(th, unsafe.Pointer(&buf[0]), cSize(len(buf))); got != n {
		t.Fatalf("expected %d bytes written, got %d", n, got)
	}
	if got := goString(unsafe.Pointer(&buf[0])); got != want {
		t.Errorf("unexpected QASM:\n%s", got)
	}
}

func TestTranspiledFingerprintBuffer(t *testing.T) {
	defer liveDelta(t)()

	th := transpile(create_circuit(1))
	defer free_transpiled(th)

	if n := transpiled_fingerprint(th, nil, 0); n != 32 {
		t.Errorf("size query: expected 32, got %d", n)
	}
	short := make([]byte, 16)
	if got := transpiled_fingerprint(th, unsafe.Pointer(&short[0]), cSize(len(short))); qbridge.Status(got) != qbridge.StatusBufferTooSmall {
		t.Errorf("expected buffer too small, got %d", got)
	}

	sum := make([]byte, 32)
	if got := transpiled_fingerprint(th, unsafe.Pointer(&sum[0]), cSize(len(sum))); got != 32 {
		t.Fatalf("expected 32, got %d", got)
	}
	if string(sum) == string(make([]byte, 32)) {
		t.Error("fingerprint was not written")
	}
}

func TestStatusStrings(t *testing.T) {
	tests := []struct {
		status cStatus
		want   string
	}{
		{0, "ok"},
		{-1, "null_handle"},
		{-2, "invalid_index"},
		{-3, "stale_handle"},
		{-4, "engine_failure"},
		{-5, "invalid_argument"},
		{-6, "buffer_too_small"},
		{-7, "unknown status"},
		{42, "unknown status"},
	}
	for _, tt := range tests {
		p := qc_status_string(tt.status)
		if p == nil {
			t.Fatalf("qc_status_string(%d) returned NULL", tt.status)
		}
		if got := goString(unsafe.Pointer(p)); got != tt.want {
			t.Errorf("qc_status_string(%d) = %q, want %q", tt.status, got, tt.want)
		}
		if again := qc_status_string(tt.status); again != p {
			t.Errorf("qc_status_string(%d) is not static", tt.status)
		}
	}
}

func TestRecoverCallStopsPanics(t *testing.T) {
	got := func() (ret cStatus) {
		defer recoverCall("test", func() { ret = cStatusOf(qbridge.StatusEngineFailure) })
		panic("boom")
	}()
	if status(got) != qbridge.StatusEngineFailure {
		t.Errorf("expected engine failure after panic, got %v", status(got))
	}
}

func TestConcurrentHandles(t *testing.T) {
	defer liveDelta(t)()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := create_circuit(2)
			add_hadamard(h, 0)
			add_cnot(h, 0, 1)
			if got := status(apply_advanced_pass(h)); got != qbridge.StatusOK {
				t.Errorf("apply_advanced_pass: %v", got)
			}
			free_transpiled(transpile(h))
		}()
	}
	wg.Wait()
}
