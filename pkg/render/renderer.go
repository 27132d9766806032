package render

import (
	"context"

	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// Renderer converts one step descriptor plus the current answers into a byte
// representation (HTML markup, terminal interaction transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	RenderStep(ctx context.Context, step schema.Step, options StepOptions) ([]byte, error)
}

// StepOptions carries per-render data so renderers stay stateless with
// respect to the wizard run.
type StepOptions struct {
	// Values pre-populates controls keyed by field name. The renderer never
	// mutates the map; changes flow back through the host's change callback.
	Values map[string]any
	// Errors surfaces the validation engine's output for inline display.
	Errors validation.ErrorMap
	// StepError is a step-scoped message (failed submission, catalog draft
	// rejection) displayed at the top of the step.
	StepError string
}
