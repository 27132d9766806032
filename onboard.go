package onboard

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/validation"
	"github.com/goliatone/go-onboard/pkg/wizard"

	htmlrenderer "github.com/goliatone/go-onboard/pkg/renderers/html"
)

// Document aliases the parsed step document for callers that only import the
// root package.
type Document = schema.Document

// Step aliases a single step definition.
type Step = schema.Step

// Field aliases a single field descriptor.
type Field = schema.Field

// ErrorMap aliases the validation result keyed by field name.
type ErrorMap = validation.ErrorMap

// ParseDocument parses a JSON or YAML step document. The source name selects
// the codec by extension and labels parse errors.
func ParseDocument(data []byte, source string) (Document, error) {
	return schema.Parse(data, source)
}

// LoadDocument reads a step document from a filesystem.
func LoadDocument(fsys fs.FS, path string) (Document, error) {
	return schema.LoadFS(fsys, path)
}

// DefaultDocument returns the embedded onboarding flow.
func DefaultDocument() (Document, error) {
	return schema.DefaultOnboarding()
}

// NewWizard exposes the wizard constructor from the top-level module; it is
// the usual entry point for hosts that drive the flow themselves.
func NewWizard(doc Document, options ...wizard.Option) (*wizard.Controller, error) {
	return wizard.New(doc, options...)
}

// RenderStepHTML renders a single step to HTML markup, the simplest entry
// point for callers that only want markup for one step.
func RenderStepHTML(ctx context.Context, step Step, options render.StepOptions) ([]byte, error) {
	return htmlrenderer.New().RenderStep(ctx, step, options)
}

// ValidateFields runs the validation engine over a field list and a value
// bag, returning the first failing message per field.
func ValidateFields(fields []Field, values map[string]any) ErrorMap {
	return validation.Validate(fields, values)
}
