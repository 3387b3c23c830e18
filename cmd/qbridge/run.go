package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/opd-ai/qbridge"
	"github.com/opd-ai/qbridge/circuit"
	"github.com/opd-ai/qbridge/factory"
	"github.com/opd-ai/qbridge/limits"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Qubits    int
	MaxQubits int
	Gates     []string
	Passes    []string
	Backend   string
}

// gateStep is one parsed --gate flag.
type gateStep struct {
	gate   circuit.Gate
	qubits []uint
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build a circuit, apply passes and transpile it",
		Long: `Build a circuit from --gate flags in order, apply the requested pass
groups in order, then transpile and print the result.

Gates are written name:qubits, for example h:0, cx:0,1 or barrier.

Example:
  qbridge run --qubits 2 --gate h:0 --gate cx:0,1 --pass basic
  qbridge run --qubits 3 --gate cx:0,2 --pass advanced --backend line3.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Qubits, "qubits", "n", 1, "number of qubits")
	cmd.Flags().IntVar(&opts.MaxQubits, "max-qubits", limits.DefaultMaxQubits, "widest circuit accepted")
	cmd.Flags().StringArrayVarP(&opts.Gates, "gate", "g", nil, "gate to append, name:qubits (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Passes, "pass", "p", nil, "pass group to apply, basic|advanced (repeatable)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "YAML backend description (default all-to-all)")

	return cmd
}

// parseGateStep parses "h:0", "cx:0,1" or "barrier".
func parseGateStep(s string) (gateStep, error) {
	name, args, _ := strings.Cut(s, ":")
	g, err := circuit.ParseGate(name)
	if err != nil {
		return gateStep{}, err
	}
	if g == circuit.GateSwap {
		return gateStep{}, fmt.Errorf("%w: swap is inserted by routing only", circuit.ErrInvalidOperation)
	}

	step := gateStep{gate: g}
	if args != "" {
		for _, field := range strings.Split(args, ",") {
			q, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
			if err != nil {
				return gateStep{}, fmt.Errorf("gate %q: qubit %q: %w", s, field, err)
			}
			step.qubits = append(step.qubits, uint(q))
		}
	}
	if want := g.Arity(); want != 0 && len(step.qubits) != want {
		return gateStep{}, fmt.Errorf("%w: gate %q needs %d qubits", circuit.ErrInvalidOperation, s, want)
	}
	if g == circuit.GateBarrier && len(step.qubits) != 0 {
		return gateStep{}, fmt.Errorf("%w: barrier spans every qubit and takes none", circuit.ErrInvalidOperation)
	}
	return step, nil
}

// apply appends the step through the boundary method for its gate.
func (s gateStep) apply(b *qbridge.Bridge, h qbridge.CircuitHandle) qbridge.Status {
	switch s.gate {
	case circuit.GateH:
		return b.AddHadamard(h, s.qubits[0])
	case circuit.GateX:
		return b.AddPauliX(h, s.qubits[0])
	case circuit.GateY:
		return b.AddPauliY(h, s.qubits[0])
	case circuit.GateZ:
		return b.AddPauliZ(h, s.qubits[0])
	case circuit.GateS:
		return b.AddS(h, s.qubits[0])
	case circuit.GateT:
		return b.AddT(h, s.qubits[0])
	case circuit.GateCX:
		return b.AddCNOT(h, s.qubits[0], s.qubits[1])
	case circuit.GateBarrier:
		return b.AddBarrier(h)
	default:
		return qbridge.StatusInvalidArgument
	}
}

func statusError(op string, s qbridge.Status) error {
	return WrapExitError(ExitFailure, op, fmt.Errorf("status %d (%s)", int32(s), s))
}

func runCircuit(opts *RunOptions, cmd *cobra.Command) error {
	steps := make([]gateStep, 0, len(opts.Gates))
	for _, g := range opts.Gates {
		step, err := parseGateStep(g)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --gate", err)
		}
		steps = append(steps, step)
	}
	for _, p := range opts.Passes {
		if p != "basic" && p != "advanced" {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --pass %q: must be basic or advanced", p), nil)
		}
	}

	// The CLI owns its bridge; metrics go to a private registry.
	f := factory.NewBridgeFactoryWithRegisterer(prometheus.NewRegistry())
	b, err := f.CreateBridgeWithConfig(&factory.Config{
		MaxQubits:   opts.MaxQubits,
		BackendFile: opts.Backend,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create bridge", err)
	}

	h, status := b.CreateCircuit(opts.Qubits)
	if !status.OK() {
		return statusError("create_circuit", status)
	}
	for i, step := range steps {
		if status := step.apply(b, h); !status.OK() {
			b.FreeCircuit(h)
			return statusError(fmt.Sprintf("gate %d (%s)", i, opts.Gates[i]), status)
		}
	}
	for _, p := range opts.Passes {
		apply := b.ApplyBasicPass
		if p == "advanced" {
			apply = b.ApplyAdvancedPass
		}
		if status := apply(h); !status.OK() {
			b.FreeCircuit(h)
			return statusError(p+" pass", status)
		}
	}

	th, status := b.Transpile(h)
	if !status.OK() {
		return statusError("transpile", status)
	}
	defer b.FreeTranspiled(th)

	t, status := b.Transpiled(th)
	if !status.OK() {
		return statusError("transpiled", status)
	}
	return writeTranspiled(cmd, opts.Format, t)
}

// transpiledJSON is the JSON form of a transpiled circuit.
type transpiledJSON struct {
	SourceID    string   `json:"source_id"`
	NumQubits   int      `json:"num_qubits"`
	Depth       int      `json:"depth"`
	Layout      []int    `json:"layout"`
	Physical    []int    `json:"physical_qubits"`
	Operations  []string `json:"operations"`
	Fingerprint string   `json:"fingerprint"`
	QASM        string   `json:"qasm"`
}

func writeTranspiled(cmd *cobra.Command, format string, t *circuit.Transpiled) error {
	out := cmd.OutOrStdout()
	if format != "json" {
		_, err := fmt.Fprint(out, t.QASM())
		return err
	}

	ops := t.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(transpiledJSON{
		SourceID:    t.SourceID().String(),
		NumQubits:   t.NumQubits(),
		Depth:       t.Depth(),
		Layout:      t.Layout(),
		Physical:    t.PhysicalQubits(),
		Operations:  names,
		Fingerprint: t.FingerprintHex(),
		QASM:        t.QASM(),
	})
}
