// Package qbridge implements a handle-based boundary over a quantum circuit
// engine, designed to be exported to foreign callers through a C ABI.
//
// Callers never hold engine objects. They hold opaque handles and receive
// integer statuses, and the boundary guarantees that no call faults: a null
// handle, a stale handle, an out-of-range qubit or an engine failure is
// always reported as a [Status].
//
// # Lifecycle
//
//	bridge, err := qbridge.New(qbridge.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h, status := bridge.CreateCircuit(2)
//	bridge.AddHadamard(h, 0)
//	bridge.AddCNOT(h, 0, 1)
//	bridge.ApplyBasicPass(h)
//
//	// Transpile consumes h; it must not be freed afterwards
//	t, status := bridge.Transpile(h)
//	if status != qbridge.StatusOK {
//	    // handle failure
//	}
//	defer bridge.FreeTranspiled(t)
//
// A circuit handle is destroyed by exactly one of FreeCircuit or Transpile.
// A transpiled handle is destroyed by FreeTranspiled.
//
// # Handles
//
// [CircuitHandle] and [TranspiledHandle] are distinct types, so passing one
// where the other is expected does not compile. Their values are 64-bit
// tokens into generation-tagged arenas: the top bits name the arena, the
// middle bits carry the slot's generation and the low bits the slot. Freeing
// an object bumps its slot's generation, which turns use-after-free and
// double-free into [StatusStaleHandle] instead of undefined behavior. The
// zero token is the null sentinel.
//
// # Status Codes
//
//	 0  StatusOK
//	-1  StatusNullHandle
//	-2  StatusInvalidIndex
//	-3  StatusStaleHandle
//	-4  StatusEngineFailure
//	-5  StatusInvalidArgument
//	-6  StatusBufferTooSmall
//
// # Pass Groups
//
// ApplyBasicPass runs redundant-gate removal, idle-wire removal and barrier
// removal in that order. ApplyAdvancedPass runs hardware routing,
// noise-aware optimization and depth optimization. Both mutate the circuit
// in place and leave it untouched when a stage fails.
//
// # Thread Safety
//
// The handle registries are guarded by a mutex. The circuits behind the
// handles are not: each handle must be used by one thread at a time.
package qbridge
