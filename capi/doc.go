//go:build cgo

// Package main provides the C API of the circuit bridge, enabling C programs
// and other language bindings to build, optimize and transpile quantum
// circuits.
//
// # Build Instructions
//
// To build as a C shared library:
//
//	go build -buildmode=c-shared -o libqbridge.so ./capi/
//
// This generates:
//   - libqbridge.so: The shared library
//   - libqbridge.h: Auto-generated C header file with function declarations
//
// qbridge.h in this directory declares the handle and status types and is
// included by the generated header.
//
// # C API Usage
//
//	#include "libqbridge.h"
//
//	qc_circuit c = create_circuit(2);
//	if (c.token == 0) {
//	    return 1;
//	}
//	add_hadamard(c, 0);
//	add_cnot(c, 0, 1);
//	apply_basic_pass(c);
//
//	qc_status st;
//	qc_transpiled t = transpile_ex(c, &st);   // c is consumed here
//	if (st != QC_OK) {
//	    fprintf(stderr, "transpile: %s\n", qc_status_string(st));
//	    return 1;
//	}
//
//	int64_t n = transpiled_qasm(t, NULL, 0);
//	char *text = malloc(n + 1);
//	transpiled_qasm(t, text, n + 1);
//	free(text);
//
//	free_transpiled(t);
//
// # Handles
//
// qc_circuit and qc_transpiled are distinct struct types passed by value, so
// the compiler rejects one where the other is expected. A zero token is the
// null handle. Every handle must be released exactly once: a circuit by
// free_circuit or transpile, a transpiled circuit by free_transpiled.
// Releasing twice, or using a released handle, is detected and reported as
// QC_ERR_STALE_HANDLE; it never corrupts another handle.
//
// # Error Handling
//
// Gate and pass functions return a qc_status. Handle-returning functions
// return the null handle on failure; their _ex variants also report the
// status through an optional out-parameter. Inspectors return a non-negative count or a negative
// status. Panics never cross into C: they are logged and reported as
// QC_ERR_ENGINE_FAILURE.
//
// # Configuration
//
// The library builds its bridge on first use from QBRIDGE_* environment
// variables; see package factory.
//
// # Thread Safety
//
// Independent handles may be used from different threads. A single handle
// must not be used from two threads at once.
//
// # Files
//
//   - qbridge_c.go: lifecycle, gate, pass and transpile functions
//   - inspect_c.go: read-only inspectors and status strings
//   - qbridge.h: shared C declarations
//   - doc.go: This documentation file
package main
