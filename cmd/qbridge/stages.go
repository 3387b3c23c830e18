package main

import (
	"encoding/json"
	"fmt"

	"github.com/opd-ai/qbridge/backend"
	"github.com/opd-ai/qbridge/passes"
	"github.com/spf13/cobra"
)

// NewStagesCommand creates the stages command.
func NewStagesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stages of each pass group in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := []*passes.Pipeline{passes.Basic(), passes.Advanced(nil)}
			out := cmd.OutOrStdout()

			if rootOpts.Format == "json" {
				m := make(map[string][]string, len(groups))
				for _, g := range groups {
					m[g.Name()] = g.Stages()
				}
				return json.NewEncoder(out).Encode(m)
			}
			for _, g := range groups {
				fmt.Fprintf(out, "%s:\n", g.Name())
				for i, s := range g.Stages() {
					fmt.Fprintf(out, "  %d. %s\n", i+1, s)
				}
			}
			return nil
		},
	}
}

// backendSummary is the JSON form of a validated backend.
type backendSummary struct {
	Name      string `json:"name"`
	NumQubits int    `json:"num_qubits"`
	Edges     int    `json:"edges"`
}

// NewBackendCommand creates the backend command.
func NewBackendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backend <file>",
		Short: "Validate a YAML backend description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backend.Load(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid backend", err)
			}
			s := backendSummary{Name: b.Name, NumQubits: b.NumQubits, Edges: len(b.Edges)}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return json.NewEncoder(out).Encode(s)
			}
			fmt.Fprintf(out, "%s: %d qubits, %d couplings\n", s.Name, s.NumQubits, s.Edges)
			return nil
		},
	}
}
