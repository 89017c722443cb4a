// Package pipeline provides the sequential, gated stage pipeline that takes
// connector source through validation, testing, and hardening. Stages
// execute in strict declared order; the first failure is terminal for the
// run and no later stage starts.
package pipeline

import (
	"context"
	"fmt"
)

// Stage is a single gate in a build pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context, bc *BuildContext) error
}

// Pipeline executes a sequence of stages in order.
type Pipeline struct {
	stages []Stage
}

// New creates a Pipeline from the given stages.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Stages returns the declared stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes each stage sequentially. It stops on the first error and
// wraps it as a *StageError naming the failed stage; errors that are
// already StageErrors pass through with the stage name filled in. Context
// cancellation is honored between stages.
func (p *Pipeline) Run(ctx context.Context, bc *BuildContext) error {
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before stage %s: %w", s.Name(), err)
		}
		bc.report("stage %s", s.Name())
		if err := s.Execute(ctx, bc); err != nil {
			return wrapStageError(s.Name(), err)
		}
	}
	return nil
}
