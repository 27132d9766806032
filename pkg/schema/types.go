package schema

import "strings"

// FieldType is the closed enum of input kinds the renderers understand.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypeTel         FieldType = "tel"
	FieldTypePassword    FieldType = "password"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeNumber      FieldType = "number"
	FieldTypeCurrency    FieldType = "currency"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeTime        FieldType = "time"
)

// Known reports whether t names one of the built-in field types. Renderers
// fall back to a plain text control for unknown types instead of failing.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeTel, FieldTypePassword,
		FieldTypeTextarea, FieldTypeNumber, FieldTypeCurrency, FieldTypeSelect,
		FieldTypeMultiSelect, FieldTypeCheckbox, FieldTypeTime:
		return true
	}
	return false
}

// Numeric reports whether values for this type are stored as numbers.
func (t FieldType) Numeric() bool {
	return t == FieldTypeNumber || t == FieldTypeCurrency
}

// StepKind selects which interpreter branch handles a step.
type StepKind string

const (
	// StepKindForm renders one control per configured field.
	StepKindForm StepKind = "form"
	// StepKindCatalog manages a user-editable list of repeated records.
	StepKindCatalog StepKind = "catalog"
	// StepKindWorkingHours renders a day-of-week open/close schedule.
	StepKindWorkingHours StepKind = "working_hours"
	// StepKindComponent delegates rendering to an externally registered
	// component resolved by Step.Component.
	StepKindComponent StepKind = "component"
)

// Option is one selectable entry for select/multiselect fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Rules carries the per-field validation constraints. Pointer fields
// distinguish "unset" from zero values; Pattern is only meaningful for
// string-typed fields.
type Rules struct {
	MinLength      *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength      *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min            *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max            *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step           *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Pattern        string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	PatternMessage string   `json:"patternMessage,omitempty" yaml:"patternMessage,omitempty"`
}

// Field describes one input control. Name is the sole key into the wizard
// value bag and must be unique within its step.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Hint        string    `json:"hint,omitempty" yaml:"hint,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Disabled    bool      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Width       string    `json:"width,omitempty" yaml:"width,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	AllowCustom bool      `json:"allowCustom,omitempty" yaml:"allowCustom,omitempty"`
	Validation  *Rules    `json:"validation,omitempty" yaml:"validation,omitempty"`
	// VisibleWhen hides the control unless the rule evaluates true against
	// the value bag; see pkg/visibility for the expression grammar.
	VisibleWhen string `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// Step describes one screen of the onboarding flow. Kind defaults to
// StepKindForm when the document omits it; component steps set Component
// instead of Kind and are normalised by the loader.
type Step struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Required    bool     `json:"required" yaml:"required"`
	Skippable   bool     `json:"skippable,omitempty" yaml:"skippable,omitempty"`
	SkipLabel   string   `json:"skipLabel,omitempty" yaml:"skipLabel,omitempty"`
	Kind        StepKind `json:"type,omitempty" yaml:"type,omitempty"`
	Component   string   `json:"component,omitempty" yaml:"component,omitempty"`
	Fields      []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	CSVSupport  bool     `json:"csvSupport,omitempty" yaml:"csvSupport,omitempty"`
	CatalogTable string  `json:"catalogTable,omitempty" yaml:"catalogTable,omitempty"`
}

// EffectiveKind resolves the rendering branch: an explicit Kind wins, a
// Component name selects the component branch, everything else is a plain
// form.
func (s Step) EffectiveKind() StepKind {
	if s.Kind != "" {
		return s.Kind
	}
	if strings.TrimSpace(s.Component) != "" {
		return StepKindComponent
	}
	return StepKindForm
}

// UsesFields reports whether the step's rendering branch consumes Fields.
// Working-hours and component steps ignore them.
func (s Step) UsesFields() bool {
	switch s.EffectiveKind() {
	case StepKindForm, StepKindCatalog:
		return true
	}
	return false
}

// RequiredFields returns the subset of fields marked required, preserving
// document order. Catalog drafts validate against exactly this subset.
func (s Step) RequiredFields() []Field {
	var out []Field
	for _, field := range s.Fields {
		if field.Required {
			out = append(out, field)
		}
	}
	return out
}

// Document is the parsed top-level schema: an ordered list of steps.
type Document struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step returns the step with the given id.
func (d Document) Step(id string) (Step, bool) {
	for _, step := range d.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return Step{}, false
}
