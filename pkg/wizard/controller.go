// Package wizard orchestrates an ordered list of step descriptors: current
// index, forward/back/skip navigation, the authentication gate on step
// access, and per-step submission side effects. It owns the canonical value
// bag; each step interpreter works on a snapshot and emits deltas back.
package wizard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/step"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// SubmitFunc is the per-step submission side effect. For the first
// (registration) step it is expected to create the account/session; its
// failure keeps the wizard on the step with the error surfaced. The error's
// message is shown to the user, so implementations should return
// human-readable text.
type SubmitFunc func(ctx context.Context, s schema.Step, values map[string]any) error

// ChangeFunc receives every partial update applied to the value bag.
type ChangeFunc func(delta map[string]any)

// CompleteFunc is invoked once when the final step is accepted.
type CompleteFunc func(values map[string]any)

// Controller sequences the wizard's steps. All state is owned by the single
// rendering context; the mutex only guards against re-entrant transitions
// while a submission is in flight (loading is a gate, not a queue; a second
// Next while loading is dropped, not buffered). Host callbacks always run
// outside the lock.
type Controller struct {
	mu            sync.Mutex
	steps         []schema.Step
	index         int
	authenticated bool
	loading       bool
	completed     bool
	stepError     string
	values        map[string]any
	active        *step.Interpreter

	submit      SubmitFunc
	upload      step.UploadFunc
	onChange    ChangeFunc
	onComplete  CompleteFunc
	strictHours bool
	logger      *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithSubmit registers the per-step submission side effect.
func WithSubmit(submit SubmitFunc) Option {
	return func(c *Controller) { c.submit = submit }
}

// WithUpload registers the bulk ingestion hook passed to catalog steps.
func WithUpload(upload step.UploadFunc) Option {
	return func(c *Controller) { c.upload = upload }
}

// WithChangeEmitter registers the value-bag change emission callback.
func WithChangeEmitter(onChange ChangeFunc) Option {
	return func(c *Controller) { c.onChange = onChange }
}

// WithCompletion registers the wizard completion callback.
func WithCompletion(onComplete CompleteFunc) Option {
	return func(c *Controller) { c.onComplete = onComplete }
}

// WithInitialValues seeds the value bag before the first step renders.
func WithInitialValues(values map[string]any) Option {
	return func(c *Controller) {
		for key, value := range values {
			c.values[key] = deepCopy(value)
		}
	}
}

// WithStrictHours forwards the open-before-close check to working-hours
// steps.
func WithStrictHours() Option {
	return func(c *Controller) { c.strictHours = true }
}

// WithLogger overrides the no-op default logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a controller over the document's steps, positioned at index 0
// with an empty value bag.
func New(doc schema.Document, options ...Option) (*Controller, error) {
	if len(doc.Steps) == 0 {
		return nil, errors.New("wizard: document has no steps")
	}
	c := &Controller{
		steps:  doc.Steps,
		values: make(map[string]any),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.active = c.buildInterpreter(0)
	return c, nil
}

// Active returns the interpreter for the current step.
func (c *Controller) Active() *step.Interpreter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Steps returns the descriptors the controller sequences.
func (c *Controller) Steps() []schema.Step { return c.steps }

// Index reports the current step position.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Authenticated reports whether the registration side effect has succeeded.
func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// Loading reports whether a submission is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Completed reports whether the final step has been accepted.
func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// StepError returns the step-scoped error from the last rejected advance or
// failed submission.
func (c *Controller) StepError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepError
}

// Values returns a deep copy of the canonical value bag.
func (c *Controller) Values() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneValues(c.values)
}

// Next validates the active step, runs its submission side effect, and
// advances on success. It reports whether the wizard moved (or completed);
// rejections and submission failures surface through StepError and the
// active interpreter's error map.
func (c *Controller) Next(ctx context.Context) bool {
	c.mu.Lock()
	if c.loading || c.completed {
		c.mu.Unlock()
		return false
	}
	active := c.active
	current := c.steps[c.index]
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	outcome := active.Advance()
	if !outcome.Accepted {
		c.mu.Lock()
		c.stepError = outcome.Errors[validation.StepErrorKey]
		c.mu.Unlock()
		return false
	}

	if c.submit != nil {
		payload := active.Snapshot()
		for key, value := range outcome.Delta {
			payload[key] = value
		}
		if err := c.submit(ctx, current, payload); err != nil {
			// Stay on the step; retry is user-initiated.
			c.mu.Lock()
			c.stepError = err.Error()
			c.mu.Unlock()
			c.logger.Warn("step submission failed",
				zap.String("step", current.ID), zap.Error(err))
			return false
		}
	}

	c.mu.Lock()
	for key, value := range outcome.Delta {
		c.values[key] = value
	}
	c.stepError = ""
	if c.index == 0 {
		c.authenticated = true
	}
	completedNow, finalValues := c.advanceLocked()
	c.mu.Unlock()

	c.emitChange(outcome.Delta)
	if completedNow && c.onComplete != nil {
		c.onComplete(finalValues)
	}
	return true
}

// Skip advances past a skippable step without running the validation engine
// or its submission side effect. Calling it on a non-skippable step is a
// silent no-op.
func (c *Controller) Skip(ctx context.Context) bool {
	c.mu.Lock()
	if c.loading || c.completed || !c.steps[c.index].Skippable {
		c.mu.Unlock()
		return false
	}
	c.stepError = ""
	completedNow, finalValues := c.advanceLocked()
	c.mu.Unlock()

	if completedNow && c.onComplete != nil {
		c.onComplete(finalValues)
	}
	return true
}

// Back decrements the index. It never re-runs the previous step's submission
// side effect and never clears previously entered values.
func (c *Controller) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading || c.completed || c.index == 0 {
		return false
	}
	c.index--
	c.stepError = ""
	c.active = c.buildInterpreter(c.index)
	return true
}

// JumpTo moves directly to a step. Index 0 is always reachable; any other
// target up to one past the current step requires the authentication gate.
// Locked jumps are dropped silently; clicking a locked step indicator simply
// does nothing.
func (c *Controller) JumpTo(target int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading || c.completed {
		return false
	}
	if target < 0 || target >= len(c.steps) {
		return false
	}
	if target != 0 {
		if !c.authenticated || target > c.index+1 {
			return false
		}
	}
	if target == c.index {
		return true
	}
	c.index = target
	c.stepError = ""
	c.active = c.buildInterpreter(c.index)
	return true
}

// advanceLocked moves to the next step or marks completion. It returns
// whether the wizard just completed plus a values copy for the completion
// callback, which the caller invokes after releasing the lock.
func (c *Controller) advanceLocked() (bool, map[string]any) {
	if c.index == len(c.steps)-1 {
		c.completed = true
		return true, cloneValues(c.values)
	}
	c.index++
	c.active = c.buildInterpreter(c.index)
	return false, nil
}

func (c *Controller) buildInterpreter(index int) *step.Interpreter {
	options := []step.Option{
		step.WithEmit(c.applyDelta),
		step.WithUpload(c.upload),
		step.WithLogger(c.logger),
	}
	if c.strictHours {
		options = append(options, step.WithStrictHours())
	}
	return step.New(c.steps[index], cloneValues(c.values), options...)
}

// applyDelta is the emission sink handed to step interpreters: it merges
// each local mutation into the canonical bag and forwards it to the host.
func (c *Controller) applyDelta(delta map[string]any) {
	if len(delta) == 0 {
		return
	}
	c.mu.Lock()
	for key, value := range delta {
		c.values[key] = value
	}
	c.mu.Unlock()
	c.emitChange(delta)
}

func (c *Controller) emitChange(delta map[string]any) {
	if c.onChange != nil && len(delta) > 0 {
		c.onChange(delta)
	}
}
