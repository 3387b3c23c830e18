// Package factory builds configured circuit bridges.
//
// The factory centralizes how a qbridge.Bridge is assembled: width limit,
// hardware backend, log level and metrics. The C library builds its single
// process-wide bridge through it, and tests use it to get isolated bridges.
//
// # Configuration
//
// Defaults are overridden by environment variables:
//   - QBRIDGE_MAX_QUBITS: widest circuit accepted, 1 to 4096 (default 64)
//   - QBRIDGE_BACKEND_FILE: YAML backend description (default none, all-to-all)
//   - QBRIDGE_LOG_LEVEL: logrus level name (default "warn")
//   - QBRIDGE_METRICS: "true" or "false" to register Prometheus collectors (default true)
//
// Unparseable or out-of-range values are logged and the default is kept.
//
// # Usage
//
//	factory := NewBridgeFactory()
//	bridge, err := factory.CreateBridge()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing Support
//
// CreateBridgeForTesting ignores the environment and attaches unregistered
// metrics, so tests can assert on collector values without a shared registry:
//
//	func TestMyFeature(t *testing.T) {
//	    bridge, metrics, err := NewBridgeFactory().CreateBridgeForTesting(WithMaxQubits(4))
//	    // Use bridge in tests...
//	}
package factory
