// Package openapi derives onboarding steps from OpenAPI 3 documents.
// Each operation carrying a request body becomes a form step whose fields
// mirror the body schema's properties, so an existing API contract can
// bootstrap a wizard without hand-writing the step document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-onboard/pkg/schema"
)

// Adapter converts OpenAPI documents into step definitions.
type Adapter struct {
	resolveRefs  bool
	allowPartial bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithReferenceResolution validates the document and resolves external
// references before conversion.
func WithReferenceResolution() Option {
	return func(a *Adapter) { a.resolveRefs = true }
}

// WithPartialDocuments accepts documents that yield no steps instead of
// returning an error.
func WithPartialDocuments() Option {
	return func(a *Adapter) { a.allowPartial = true }
}

// New constructs an Adapter.
func New(options ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Steps extracts one form step per operation that declares a request body.
// Steps are ordered by operation id for stable output.
func (a *Adapter) Steps(ctx context.Context, data []byte) ([]schema.Step, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: a.resolveRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if a.resolveRefs {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	var steps []schema.Step
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range map[string]*openapi3.Operation{
				"POST":  item.Post,
				"PUT":   item.Put,
				"PATCH": item.Patch,
			} {
				if step, ok := a.stepFromOperation(method, path, operation); ok {
					steps = append(steps, step)
				}
			}
		}
	}

	if len(steps) == 0 && !a.allowPartial {
		return nil, errors.New("openapi: no operations with a request body")
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].ID < steps[j].ID })
	return steps, nil
}

// Step extracts a single step by operation id.
func (a *Adapter) Step(ctx context.Context, data []byte, operationID string) (schema.Step, error) {
	steps, err := a.Steps(ctx, data)
	if err != nil {
		return schema.Step{}, err
	}
	for _, step := range steps {
		if step.ID == operationID {
			return step, nil
		}
	}
	return schema.Step{}, fmt.Errorf("openapi: operation %q not found", operationID)
}

func (a *Adapter) stepFromOperation(method, path string, operation *openapi3.Operation) (schema.Step, bool) {
	if operation == nil {
		return schema.Step{}, false
	}
	body := requestSchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return schema.Step{}, false
	}

	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	step := schema.Step{
		ID:          id,
		Title:       operation.Summary,
		Description: operation.Description,
		Kind:        schema.StepKindForm,
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := fieldFromSchema(name, ref.Value)
		_, field.Required = required[name]
		step.Fields = append(step.Fields, field)
	}
	if len(step.Fields) == 0 {
		return schema.Step{}, false
	}
	return step, true
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldFromSchema(name string, src *openapi3.Schema) schema.Field {
	field := schema.Field{
		Name:  name,
		Label: src.Title,
		Hint:  src.Description,
		Type:  fieldType(src),
	}
	if src.Default != nil {
		field.Default = src.Default
	}

	enum := src.Enum
	if field.Type == schema.FieldTypeMultiSelect && src.Items != nil && src.Items.Value != nil {
		enum = src.Items.Value.Enum
	}
	for _, entry := range enum {
		value := fmt.Sprint(entry)
		field.Options = append(field.Options, schema.Option{Value: value, Label: value})
	}

	rules := rulesFromSchema(src)
	if rules != nil {
		field.Validation = rules
	}
	return field
}

func fieldType(src *openapi3.Schema) schema.FieldType {
	switch primaryType(src.Type) {
	case "boolean":
		return schema.FieldTypeCheckbox
	case "number", "integer":
		return schema.FieldTypeNumber
	case "array":
		if src.Items != nil && src.Items.Value != nil && len(src.Items.Value.Enum) > 0 {
			return schema.FieldTypeMultiSelect
		}
		return schema.FieldTypeText
	case "string":
		if len(src.Enum) > 0 {
			return schema.FieldTypeSelect
		}
		switch src.Format {
		case "email":
			return schema.FieldTypeEmail
		case "password":
			return schema.FieldTypePassword
		case "tel", "phone":
			return schema.FieldTypeTel
		case "time":
			return schema.FieldTypeTime
		}
		return schema.FieldTypeText
	default:
		return schema.FieldTypeText
	}
}

func rulesFromSchema(src *openapi3.Schema) *schema.Rules {
	rules := &schema.Rules{}
	touched := false

	if src.MinLength != 0 {
		value := int(src.MinLength)
		rules.MinLength = &value
		touched = true
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		rules.MaxLength = &value
		touched = true
	}
	if src.Min != nil {
		value := *src.Min
		rules.Min = &value
		touched = true
	}
	if src.Max != nil {
		value := *src.Max
		rules.Max = &value
		touched = true
	}
	if src.Pattern != "" {
		rules.Pattern = src.Pattern
		touched = true
	}
	if !touched {
		return nil
	}
	return rules
}

func primaryType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
