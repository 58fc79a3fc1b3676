package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/aisearch/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// extraction state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., retries per step)
type Step interface {
	// Do executes the pipeline step.
	// Terminal run failures (CAPTCHA block, dead session, missing content)
	// must be classified via ex.Fail and reported as nil; a returned error
	// means the run was aborted from outside, e.g. context cancellation.
	Do(ctx context.Context, ex *model.Extraction) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// After each step the extraction is checked for a terminal failure
// classification; the pipeline stops there with a nil error, because the
// failure is part of the run's result rather than an execution problem.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own timeouts. This allows graceful
// cleanup between steps while still respecting cancellation.
func (p *Pipeline) Execute(ctx context.Context, ex *model.Extraction) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"query", ex.Request.Query,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"query", ex.Request.Query,
		)

		if err := step.Do(ctx, ex); err != nil {
			p.logger.Error("step aborted",
				"step", step.Name(),
				"query", ex.Request.Query,
				"error", err,
			)
			return err
		}

		ex.PerformedSteps = append(ex.PerformedSteps, step.Name())

		if ex.Failed() {
			p.logger.Warn("extraction terminated",
				"step", step.Name(),
				"query", ex.Request.Query,
				"error_kind", string(ex.ErrorKind),
				"message", ex.ErrorMessage,
			)
			return nil
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"query", ex.Request.Query,
		)
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
