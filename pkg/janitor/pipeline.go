package janitor

import (
	"context"
	"fmt"
)

// Transform is a mutation or validation applied to a Frame.
// Transforms may mutate f in place; callers that need the input preserved
// should hand them a Clone.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Counter is implemented by transforms that tally recoverable problems
// (unparseable cells, rewritten values) during their most recent Apply.
type Counter interface {
	Counts() map[string]int
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline(steps ...Transform) *Pipeline { return &Pipeline{steps: steps} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Steps returns the transforms in execution order.
func (p *Pipeline) Steps() []Transform { return p.steps }

func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return cur, nil
}

// Counts merges the counters of every step that implements Counter.
// Keys are summed when two steps report the same name.
func (p *Pipeline) Counts() map[string]int {
	out := map[string]int{}
	for _, t := range p.steps {
		c, ok := t.(Counter)
		if !ok {
			continue
		}
		for k, v := range c.Counts() {
			out[k] += v
		}
	}
	return out
}
