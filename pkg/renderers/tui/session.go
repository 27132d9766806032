// Package tui drives a wizard run over terminal prompts. The session walks
// the controller's steps, feeds answers into the active step interpreter,
// and loops on rejected advances until the input validates or the user
// aborts. The PromptDriver seam keeps the flow testable without a terminal.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schedule"
	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/step"
	"github.com/goliatone/go-onboard/pkg/visibility"
	"github.com/goliatone/go-onboard/pkg/wizard"
)

var dayNames = [7]string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}

// Session runs a wizard interactively.
type Session struct {
	driver PromptDriver
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey-backed default driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger overrides the no-op default logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession constructs a session with defaults (survey driver, no-op
// logger).
func NewSession(options ...Option) *Session {
	s := &Session{
		driver: NewSurveyDriver(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Run walks every step until the wizard completes or the user aborts.
func (s *Session) Run(ctx context.Context, controller *wizard.Controller) error {
	for !controller.Completed() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runStep(ctx, controller); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) runStep(ctx context.Context, controller *wizard.Controller) error {
	active := controller.Active()
	current := active.Step()

	if current.Title != "" {
		if err := s.driver.Info(ctx, "== "+current.Title); err != nil {
			return err
		}
	}

	switch current.EffectiveKind() {
	case schema.StepKindForm:
		if err := s.collectForm(ctx, active); err != nil {
			return err
		}
	case schema.StepKindCatalog:
		if err := s.collectCatalog(ctx, controller, active); err != nil {
			return err
		}
	case schema.StepKindWorkingHours:
		if err := s.collectWorkingHours(ctx, active); err != nil {
			return err
		}
	case schema.StepKindComponent:
		s.logger.Warn("component steps have no terminal surface, skipping prompts",
			zap.String("step", current.ID),
			zap.String("component", current.Component))
	}

	if current.Skippable {
		label := current.SkipLabel
		if label == "" {
			label = "Bu adımı atla"
		}
		skip, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label + "?"})
		if err != nil {
			return err
		}
		if skip && controller.Skip(ctx) {
			return nil
		}
	}

	if controller.Next(ctx) {
		return nil
	}

	// Rejected: surface errors and let the caller's loop re-run the step.
	for _, field := range current.Fields {
		if msg, ok := active.Errors()[field.Name]; ok {
			if err := s.driver.Info(ctx, fmt.Sprintf("✗ %s", msg)); err != nil {
				return err
			}
		}
	}
	if msg := controller.StepError(); msg != "" {
		if err := s.driver.Info(ctx, "✗ "+msg); err != nil {
			return err
		}
		retry, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Tekrar denensin mi?", Default: true})
		if err != nil {
			return err
		}
		if !retry {
			return ErrAborted
		}
	}
	return nil
}

func (s *Session) collectForm(ctx context.Context, active *step.Interpreter) error {
	for _, field := range active.Step().Fields {
		if field.Disabled {
			continue
		}
		if !visibility.Visible(field.VisibleWhen, active.Snapshot()) {
			continue
		}
		value, err := s.promptField(ctx, field, active.Value(field.Name))
		if err != nil {
			return err
		}
		active.SetValue(field.Name, value)
	}
	return nil
}

func (s *Session) collectCatalog(ctx context.Context, controller *wizard.Controller, active *step.Interpreter) error {
	for {
		message := "Kayıt eklemek ister misiniz?"
		if count := len(active.Items()); count > 0 {
			message = fmt.Sprintf("%d kayıt eklendi. Bir tane daha?", count)
		}
		add, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: len(active.Items()) == 0})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}

		for _, field := range active.Step().Fields {
			value, err := s.promptField(ctx, field, active.Draft(field.Name))
			if err != nil {
				return err
			}
			active.SetDraft(field.Name, value)
		}
		if err := active.AddItem(); err != nil {
			if infoErr := s.driver.Info(ctx, "✗ "+err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
}

func (s *Session) collectWorkingHours(ctx context.Context, active *step.Interpreter) error {
	week := active.Week()
	for day := schedule.Sunday; day <= schedule.Saturday; day++ {
		hours := week[day]
		open, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: dayNames[day] + " açık mı?",
			Default: hours.IsOpen,
		})
		if err != nil {
			return err
		}
		if open != hours.IsOpen {
			if err := active.ToggleDay(day); err != nil {
				return err
			}
		}
		if !open {
			continue
		}

		openAt, err := s.driver.Input(ctx, InputConfig{Message: dayNames[day] + " açılış", Default: hours.Open})
		if err != nil {
			return err
		}
		closeAt, err := s.driver.Input(ctx, InputConfig{Message: dayNames[day] + " kapanış", Default: hours.Close})
		if err != nil {
			return err
		}
		if err := active.SetDayHours(day, strings.TrimSpace(openAt), strings.TrimSpace(closeAt)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field schema.Field, current any) (any, error) {
	label := field.DisplayLabel()
	help := field.Hint

	switch field.Type {
	case schema.FieldTypePassword:
		return s.driver.Password(ctx, InputConfig{Message: label, Help: help})

	case schema.FieldTypeTextarea:
		return s.driver.TextArea(ctx, InputConfig{Message: label, Default: stringify(current), Help: help})

	case schema.FieldTypeCheckbox:
		checked, _ := current.(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: help})

	case schema.FieldTypeNumber:
		raw, err := s.driver.Input(ctx, InputConfig{Message: label, Default: stringify(current), Help: help})
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil, nil
		}
		if num, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return num, nil
		}
		// Leave unparseable input as-is; the validation engine rejects it
		// with the field's message instead of a parse error.
		return trimmed, nil

	case schema.FieldTypeCurrency:
		raw, err := s.driver.Input(ctx, InputConfig{Message: label, Default: stringify(current), Help: help})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		if num, ok := render.ParseCurrency(raw); ok {
			return num, nil
		}
		return raw, nil

	case schema.FieldTypeSelect:
		return s.promptSelect(ctx, field, current)

	case schema.FieldTypeMultiSelect:
		options := optionLabels(field.Options)
		defaults := selectedIndices(field.Options, current)
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: options, Defaults: defaults, Help: help})
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				values = append(values, field.Options[idx].Value)
			}
		}
		return values, nil

	case schema.FieldTypeText, schema.FieldTypeEmail, schema.FieldTypeTel, schema.FieldTypeTime:
		return s.driver.Input(ctx, InputConfig{Message: label, Default: stringify(current), Help: help})

	default:
		s.logger.Warn("unknown field type, falling back to text input",
			zap.String("field", field.Name),
			zap.String("type", string(field.Type)))
		return s.driver.Input(ctx, InputConfig{Message: label, Default: stringify(current), Help: help})
	}
}

func (s *Session) promptSelect(ctx context.Context, field schema.Field, current any) (any, error) {
	options := optionLabels(field.Options)
	if field.AllowCustom {
		options = append(options, "Diğer...")
	}
	defaultIdx := -1
	if value := stringify(current); value != "" {
		for idx, option := range field.Options {
			if option.Value == value {
				defaultIdx = idx
				break
			}
		}
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      field.DisplayLabel(),
		Options:      options,
		DefaultIndex: defaultIdx,
		Help:         field.Hint,
	})
	if err != nil {
		return nil, err
	}
	if idx >= 0 && idx < len(field.Options) {
		return field.Options[idx].Value, nil
	}
	if field.AllowCustom && idx == len(field.Options) {
		// The custom value need not exist in the configured options.
		return s.driver.Input(ctx, InputConfig{Message: field.DisplayLabel()})
	}
	return nil, nil
}

func optionLabels(options []schema.Option) []string {
	out := make([]string, len(options))
	for i, option := range options {
		if option.Label != "" {
			out[i] = option.Label
		} else {
			out[i] = option.Value
		}
	}
	return out
}

func selectedIndices(options []schema.Option, current any) []int {
	var values []string
	switch v := current.(type) {
	case []string:
		values = v
	case []any:
		for _, entry := range v {
			values = append(values, fmt.Sprint(entry))
		}
	}
	if len(values) == 0 {
		return nil
	}
	chosen := make(map[string]struct{}, len(values))
	for _, value := range values {
		chosen[value] = struct{}{}
	}
	var out []int
	for idx, option := range options {
		if _, ok := chosen[option.Value]; ok {
			out = append(out, idx)
		}
	}
	return out
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
