package qbridge

import (
	"fmt"

	"github.com/opd-ai/qbridge/backend"
	"github.com/opd-ai/qbridge/limits"
	"github.com/opd-ai/qbridge/passes"
	"github.com/opd-ai/qbridge/telemetry"
)

// Options configures a Bridge.
type Options struct {
	// MaxQubits bounds the width accepted by CreateCircuit
	MaxQubits int

	// Backend is the hardware target for routing, noise-aware optimization
	// and transpilation; nil is an ideal all-to-all device
	Backend *backend.Backend

	// Basic and Advanced are the pass groups behind ApplyBasicPass and
	// ApplyAdvancedPass; nil selects passes.Basic and passes.Advanced(Backend)
	Basic    *passes.Pipeline
	Advanced *passes.Pipeline

	// Metrics receives call and handle telemetry; nil disables it
	Metrics *telemetry.Metrics
}

// NewOptions returns the default options.
func NewOptions() *Options {
	return &Options{
		MaxQubits: limits.DefaultMaxQubits,
	}
}

// normalize fills defaults and validates the options.
func (o *Options) normalize() error {
	if o.MaxQubits == 0 {
		o.MaxQubits = limits.DefaultMaxQubits
	}
	if o.MaxQubits < 1 || o.MaxQubits > limits.MaxQubits {
		return fmt.Errorf("%w: MaxQubits %d not in [1, %d]", limits.ErrQubitCount, o.MaxQubits, limits.MaxQubits)
	}
	if o.Basic == nil {
		o.Basic = passes.Basic()
	}
	if o.Advanced == nil {
		o.Advanced = passes.Advanced(o.Backend)
	}
	return nil
}
