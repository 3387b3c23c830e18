package backend

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/opd-ai/qbridge/limits"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidBackend indicates a malformed backend description
var ErrInvalidBackend = errors.New("invalid backend")

// Edge is a directed two-qubit coupling with its CX error rate.
type Edge struct {
	Control int     `yaml:"control"`
	Target  int     `yaml:"target"`
	Error   float64 `yaml:"error"`
}

// Backend is a hardware target description.
type Backend struct {
	Name              string    `yaml:"name"`
	NumQubits         int       `yaml:"num_qubits"`
	Edges             []Edge    `yaml:"edges"`
	SingleQubitErrors []float64 `yaml:"single_qubit_errors"`

	neighbors [][]int
	cxErrors  map[[2]int]float64
}

// New builds and validates a backend from its parts.
func New(name string, numQubits int, edges []Edge, singleQubitErrors []float64) (*Backend, error) {
	b := &Backend{
		Name:              name,
		NumQubits:         numQubits,
		Edges:             edges,
		SingleQubitErrors: singleQubitErrors,
	}
	if err := b.index(); err != nil {
		return nil, err
	}
	return b, nil
}

// Linear returns an error-free backend whose qubits form a line with
// couplings in both directions.
func Linear(numQubits int) (*Backend, error) {
	edges := make([]Edge, 0, 2*numQubits)
	for q := 0; q+1 < numQubits; q++ {
		edges = append(edges, Edge{Control: q, Target: q + 1}, Edge{Control: q + 1, Target: q})
	}
	return New(fmt.Sprintf("linear%d", numQubits), numQubits, edges, nil)
}

// Parse decodes and validates a YAML backend description.
func Parse(data []byte) (*Backend, error) {
	var b Backend
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackend, err)
	}
	if err := b.index(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Load reads a YAML backend description from path.
func Load(path string) (*Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backend file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Load",
		"path":       path,
		"backend":    b.Name,
		"num_qubits": b.NumQubits,
		"edges":      len(b.Edges),
	}).Info("Loaded backend description")

	return b, nil
}

// index validates the description and builds the lookup tables.
func (b *Backend) index() error {
	if err := limits.ValidateQubitCount(b.NumQubits, limits.MaxQubits); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackend, err)
	}
	if len(b.SingleQubitErrors) > b.NumQubits {
		return fmt.Errorf("%w: %d single-qubit error rates for %d qubits",
			ErrInvalidBackend, len(b.SingleQubitErrors), b.NumQubits)
	}
	for q, e := range b.SingleQubitErrors {
		if e < 0 || e > 1 {
			return fmt.Errorf("%w: qubit %d error rate %g not in [0, 1]", ErrInvalidBackend, q, e)
		}
	}

	b.neighbors = make([][]int, b.NumQubits)
	b.cxErrors = make(map[[2]int]float64, len(b.Edges))
	seen := make(map[[2]int]bool)
	for _, e := range b.Edges {
		if err := limits.ValidateQubitIndex(e.Control, b.NumQubits); err != nil {
			return fmt.Errorf("%w: edge control: %v", ErrInvalidBackend, err)
		}
		if err := limits.ValidateQubitIndex(e.Target, b.NumQubits); err != nil {
			return fmt.Errorf("%w: edge target: %v", ErrInvalidBackend, err)
		}
		if e.Control == e.Target {
			return fmt.Errorf("%w: self-coupling on qubit %d", ErrInvalidBackend, e.Control)
		}
		if e.Error < 0 || e.Error > 1 {
			return fmt.Errorf("%w: edge %d-%d error rate %g not in [0, 1]",
				ErrInvalidBackend, e.Control, e.Target, e.Error)
		}
		b.cxErrors[[2]int{e.Control, e.Target}] = e.Error

		lo, hi := e.Control, e.Target
		if lo > hi {
			lo, hi = hi, lo
		}
		if !seen[[2]int{lo, hi}] {
			seen[[2]int{lo, hi}] = true
			b.neighbors[lo] = append(b.neighbors[lo], hi)
			b.neighbors[hi] = append(b.neighbors[hi], lo)
		}
	}
	for _, n := range b.neighbors {
		sort.Ints(n)
	}
	return nil
}

// Coupled reports whether a and b share a coupling in either direction.
func (b *Backend) Coupled(a, c int) bool {
	_, fwd := b.cxErrors[[2]int{a, c}]
	_, rev := b.cxErrors[[2]int{c, a}]
	return fwd || rev
}

// CXError returns the error rate of a CX with the given control and target,
// and whether that direction is supported at all.
func (b *Backend) CXError(control, target int) (float64, bool) {
	e, ok := b.cxErrors[[2]int{control, target}]
	return e, ok
}

// SingleQubitError returns the single-qubit gate error rate of q, zero when unknown.
func (b *Backend) SingleQubitError(q int) float64 {
	if q < 0 || q >= len(b.SingleQubitErrors) {
		return 0
	}
	return b.SingleQubitErrors[q]
}

// ShortestPath returns the qubits on a shortest undirected path from src to
// dst, both included, using only qubits below width. It returns nil when no
// such path exists. Ties are broken towards lower qubit numbers.
func (b *Backend) ShortestPath(src, dst, width int) []int {
	if src < 0 || dst < 0 || src >= width || dst >= width || width > b.NumQubits {
		return nil
	}
	if src == dst {
		return []int{src}
	}

	prev := make([]int, width)
	for i := range prev {
		prev[i] = -1
	}
	prev[src] = src
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range b.neighbors[cur] {
			if next >= width || prev[next] != -1 {
				continue
			}
			prev[next] = cur
			if next == dst {
				return walkBack(prev, src, dst)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func walkBack(prev []int, src, dst int) []int {
	var path []int
	for q := dst; q != src; q = prev[q] {
		path = append(path, q)
	}
	path = append(path, src)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
