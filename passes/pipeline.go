package passes

import (
	"errors"
	"fmt"

	"github.com/opd-ai/qbridge/backend"
	"github.com/opd-ai/qbridge/circuit"
	"github.com/sirupsen/logrus"
)

// ErrUnroutable indicates a circuit that cannot be placed on the backend
var ErrUnroutable = errors.New("circuit cannot be routed")

// Pass is a single named transformation of a circuit.
type Pass interface {
	// Name returns the stage name used in logs and pipeline listings
	Name() string

	// Run transforms c in place
	Run(c *circuit.Circuit) error
}

// Pipeline runs an ordered list of passes.
type Pipeline struct {
	name   string
	stages []Pass
}

// NewPipeline creates a pipeline running stages in the given order.
func NewPipeline(name string, stages ...Pass) *Pipeline {
	return &Pipeline{
		name:   name,
		stages: append([]Pass(nil), stages...),
	}
}

// Basic returns the basic pass group: redundant-gate removal, then idle-wire
// removal, then barrier removal.
func Basic() *Pipeline {
	return NewPipeline("basic",
		RemoveRedundantGates{},
		RemoveIdleWires{},
		RemoveBarriers{},
	)
}

// Advanced returns the advanced pass group for target: hardware routing, then
// noise-aware optimization, then depth optimization. A nil target is an ideal
// all-to-all device.
func Advanced(target *backend.Backend) *Pipeline {
	return NewPipeline("advanced",
		RouteToHardware{Backend: target},
		OptimizeNoiseAware{Backend: target},
		OptimizeDepth{},
	)
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Apply runs every stage on a copy of c and returns the transformed copy.
// c itself is never modified.
func (p *Pipeline) Apply(c *circuit.Circuit) (*circuit.Circuit, error) {
	if c == nil {
		return nil, fmt.Errorf("pipeline %s: nil circuit", p.name)
	}

	work := c.Clone()
	for _, stage := range p.stages {
		before := work.Len()
		if err := stage.Run(work); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "Pipeline.Apply",
				"pipeline":   p.name,
				"stage":      stage.Name(),
				"circuit_id": c.ID().String(),
				"error":      err.Error(),
			}).Error("Pass stage failed")
			return nil, fmt.Errorf("pipeline %s stage %s: %w", p.name, stage.Name(), err)
		}

		logrus.WithFields(logrus.Fields{
			"function":   "Pipeline.Apply",
			"pipeline":   p.name,
			"stage":      stage.Name(),
			"circuit_id": c.ID().String(),
			"ops_before": before,
			"ops_after":  work.Len(),
		}).Debug("Pass stage completed")
	}
	return work, nil
}
