// Package step interprets a single step descriptor during one wizard visit:
// it keeps the step-local working state (form values, catalog draft and item
// list, weekly hours), runs the validation engine on advance requests, and
// reports an accepted outcome with the delta to merge into the value bag.
package step

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/catalog"
	"github.com/goliatone/go-onboard/pkg/schedule"
	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// Reserved value-bag keys written by catalog and working-hours steps. Field
// names share the same namespace, so schema authors must not reuse these.
const (
	CatalogItemsKey = "catalogItems"
	WorkingHoursKey = "workingHours"
)

// DraftKey namespaces catalog draft values so the committed list and the
// record under construction never collide in render snapshots.
func DraftKey(name string) string {
	return "draft." + name
}

// UploadFunc is the caller-provided bulk ingestion hook for catalog steps:
// it parses the uploaded file into records keyed by field name. Returned
// records receive freshly minted local ids when merged.
type UploadFunc func(ctx context.Context, file io.Reader, table string) ([]map[string]any, error)

// EmitFunc receives every local mutation as a partial update so the host can
// lift or persist state as it changes.
type EmitFunc func(delta map[string]any)

// Outcome reports the result of an advance request. A rejected outcome keeps
// the interpreter in its editing state with Errors populated; an accepted one
// carries the delta the controller merges into the canonical value bag.
type Outcome struct {
	Accepted bool
	Errors   validation.ErrorMap
	Delta    map[string]any
}

// Interpreter drives one step through its visit: editing until an advance
// request, validating on request, then rejected (stay) or accepted (hand
// control back to the wizard controller).
type Interpreter struct {
	step   schema.Step
	values map[string]any
	errors validation.ErrorMap

	list  *catalog.List
	draft catalog.Item
	week  schedule.Week

	emit        EmitFunc
	upload      UploadFunc
	logger      *zap.Logger
	strictHours bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithEmit registers the change-emission callback.
func WithEmit(emit EmitFunc) Option {
	return func(i *Interpreter) { i.emit = emit }
}

// WithUpload registers the bulk ingestion hook for catalog steps.
func WithUpload(upload UploadFunc) Option {
	return func(i *Interpreter) { i.upload = upload }
}

// WithLogger overrides the no-op default logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithStrictHours enables the open-before-close check on working-hours
// steps. Off by default to match the platform's observed behaviour.
func WithStrictHours() Option {
	return func(i *Interpreter) { i.strictHours = true }
}

// New builds an interpreter for one step visit. The snapshot is a working
// copy of the value bag; earlier steps' answers stay readable, and catalog or
// hours state found under the reserved keys is rehydrated.
func New(step schema.Step, snapshot map[string]any, options ...Option) *Interpreter {
	i := &Interpreter{
		step:   step,
		values: make(map[string]any, len(snapshot)),
		errors: make(validation.ErrorMap),
		draft:  make(catalog.Item),
		logger: zap.NewNop(),
	}
	for key, value := range snapshot {
		i.values[key] = value
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}

	switch step.EffectiveKind() {
	case schema.StepKindCatalog:
		i.list = catalog.NewList(i.values[CatalogItemsKey])
	case schema.StepKindWorkingHours:
		if week, ok := schedule.FromValue(i.values[WorkingHoursKey]); ok {
			i.week = week.Clone()
		} else {
			i.week = schedule.DefaultWeek()
		}
	}

	// Seed field defaults for values the bag does not carry yet.
	for _, field := range step.Fields {
		if field.Default == nil {
			continue
		}
		if _, exists := i.values[field.Name]; !exists {
			i.values[field.Name] = field.Default
		}
	}
	return i
}

// Step returns the descriptor this interpreter was built for.
func (i *Interpreter) Step() schema.Step { return i.step }

// Errors returns the error map from the last advance request.
func (i *Interpreter) Errors() validation.ErrorMap { return i.errors }

// Value reads one entry from the working snapshot.
func (i *Interpreter) Value(name string) any { return i.values[name] }

// SetValue is the change handler for form controls. It updates the working
// snapshot and emits the delta upward.
func (i *Interpreter) SetValue(name string, value any) {
	i.values[name] = value
	i.emitDelta(map[string]any{name: value})
}

// Snapshot returns a copy of the working values, including the reserved keys
// and draft entries so renderers see the full step state.
func (i *Interpreter) Snapshot() map[string]any {
	out := make(map[string]any, len(i.values)+len(i.draft)+2)
	for key, value := range i.values {
		out[key] = value
	}
	if i.list != nil {
		out[CatalogItemsKey] = i.list.Items()
	}
	if i.week != nil {
		out[WorkingHoursKey] = i.week.Clone()
	}
	for key, value := range i.draft {
		out[DraftKey(key)] = value
	}
	return out
}

// Advance runs the step's validation branch. Rejected outcomes leave the
// interpreter editing with errors surfaced; accepted outcomes carry the local
// state to merge into the value bag.
func (i *Interpreter) Advance() Outcome {
	i.errors = make(validation.ErrorMap)

	switch i.step.EffectiveKind() {
	case schema.StepKindForm:
		return i.advanceForm()
	case schema.StepKindCatalog:
		return i.advanceCatalog()
	case schema.StepKindWorkingHours:
		return i.advanceWorkingHours()
	case schema.StepKindComponent:
		// Component steps own their surface entirely; the wizard only
		// sequences them.
		return Outcome{Accepted: true}
	}

	i.logger.Warn("unknown step kind treated as plain form", zap.String("step", i.step.ID))
	return i.advanceForm()
}

func (i *Interpreter) advanceForm() Outcome {
	errs := validation.Validate(i.step.Fields, i.values)
	if !errs.Empty() {
		i.errors = errs
		return Outcome{Errors: errs}
	}

	delta := make(map[string]any, len(i.step.Fields))
	for _, field := range i.step.Fields {
		if value, ok := i.values[field.Name]; ok {
			delta[field.Name] = value
		}
	}
	return Outcome{Accepted: true, Delta: delta}
}

func (i *Interpreter) advanceCatalog() Outcome {
	// The committed list is exempt from the validation engine: the step
	// advances when it holds at least one item or is skippable.
	if i.list.Len() == 0 && !i.step.Skippable {
		i.errors[validation.StepErrorKey] = "En az bir kayıt ekleyin"
		return Outcome{Errors: i.errors}
	}
	return Outcome{
		Accepted: true,
		Delta:    map[string]any{CatalogItemsKey: i.list.Items()},
	}
}

func (i *Interpreter) advanceWorkingHours() Outcome {
	if err := i.week.Check(i.strictHours); err != nil {
		i.errors[validation.StepErrorKey] = err.Error()
		return Outcome{Errors: i.errors}
	}
	return Outcome{
		Accepted: true,
		Delta:    map[string]any{WorkingHoursKey: i.week.Clone()},
	}
}

func (i *Interpreter) emitDelta(delta map[string]any) {
	if i.emit != nil {
		i.emit(delta)
	}
}

// --- catalog branch -------------------------------------------------------

// Draft returns the current draft entry for one field.
func (i *Interpreter) Draft(name string) any { return i.draft[name] }

// SetDraft updates the record under construction. Draft edits are local; they
// reach the value bag only when AddItem commits them.
func (i *Interpreter) SetDraft(name string, value any) {
	i.draft[name] = value
}

// AddItem validates the draft's required fields and commits it to the list
// with a fresh local id. A rejection surfaces one aggregate message naming
// the missing labels under the step error key.
func (i *Interpreter) AddItem() error {
	if i.list == nil {
		return fmt.Errorf("step: %q is not a catalog step", i.step.ID)
	}
	if _, err := i.list.Add(i.step.Fields, i.draft); err != nil {
		i.errors[validation.StepErrorKey] = err.Error()
		return err
	}
	delete(i.errors, validation.StepErrorKey)
	i.draft = make(catalog.Item)
	i.emitDelta(map[string]any{CatalogItemsKey: i.list.Items()})
	return nil
}

// RemoveItem drops a committed item by its local id.
func (i *Interpreter) RemoveItem(id string) error {
	if i.list == nil {
		return fmt.Errorf("step: %q is not a catalog step", i.step.ID)
	}
	i.list.Remove(id)
	i.emitDelta(map[string]any{CatalogItemsKey: i.list.Items()})
	return nil
}

// Items returns the committed catalog records.
func (i *Interpreter) Items() []catalog.Item {
	if i.list == nil {
		return nil
	}
	return i.list.Items()
}

// Import runs the bulk ingestion hook and merges the returned records into
// the list with freshly generated ids.
func (i *Interpreter) Import(ctx context.Context, file io.Reader) (int, error) {
	if i.list == nil {
		return 0, fmt.Errorf("step: %q is not a catalog step", i.step.ID)
	}
	if i.upload == nil {
		return 0, fmt.Errorf("step: no upload hook configured for %q", i.step.ID)
	}
	records, err := i.upload(ctx, file, i.step.CatalogTable)
	if err != nil {
		return 0, fmt.Errorf("step: import into %q: %w", i.step.ID, err)
	}
	added := i.list.Merge(records)
	i.emitDelta(map[string]any{CatalogItemsKey: i.list.Items()})
	return added, nil
}

// --- working-hours branch -------------------------------------------------

// Week returns a copy of the working schedule.
func (i *Interpreter) Week() schedule.Week {
	if i.week == nil {
		return nil
	}
	return i.week.Clone()
}

// ToggleDay flips a day's open flag, preserving previously entered times so
// re-opening restores them.
func (i *Interpreter) ToggleDay(day int) error {
	if i.week == nil {
		return fmt.Errorf("step: %q is not a working-hours step", i.step.ID)
	}
	if err := i.week.Toggle(day); err != nil {
		return err
	}
	i.emitDelta(map[string]any{WorkingHoursKey: i.week.Clone()})
	return nil
}

// SetDayHours updates one day's opening window.
func (i *Interpreter) SetDayHours(day int, open, close string) error {
	if i.week == nil {
		return fmt.Errorf("step: %q is not a working-hours step", i.step.ID)
	}
	if err := i.week.SetHours(day, open, close); err != nil {
		return err
	}
	i.emitDelta(map[string]any{WorkingHoursKey: i.week.Clone()})
	return nil
}
