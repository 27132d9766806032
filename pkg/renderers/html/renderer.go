package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/catalog"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/render/components"
	"github.com/goliatone/go-onboard/pkg/schedule"
	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/step"
	"github.com/goliatone/go-onboard/pkg/visibility"
)

var dayNames = [7]string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}

// Renderer implements render.Renderer with server-side HTML output. It is
// stateless across steps; ephemeral UI toggles (password visibility, the
// custom-option input) live in data attributes the host's runtime drives.
type Renderer struct {
	components *components.Registry
	logger     *zap.Logger
}

// New constructs an HTML renderer with defaults (empty component registry,
// no-op logger).
func New(options ...Option) *Renderer {
	r := &Renderer{
		components: components.New(),
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "html" }

// ContentType reports the serialization format used by RenderStep.
func (r *Renderer) ContentType() string { return "text/html" }

// RenderStep renders one step descriptor into a markup fragment the host
// embeds into its page shell.
func (r *Renderer) RenderStep(ctx context.Context, s schema.Step, options render.StepOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	writeStepChrome(&b, s, options.StepError)

	switch s.EffectiveKind() {
	case schema.StepKindForm:
		r.renderForm(&b, s, options)
	case schema.StepKindCatalog:
		r.renderCatalog(&b, s, options)
	case schema.StepKindWorkingHours:
		r.renderWorkingHours(&b, s, options)
	case schema.StepKindComponent:
		if err := r.renderComponent(&b, s, options); err != nil {
			return nil, err
		}
	default:
		r.logger.Warn("unknown step kind, rendering as plain form",
			zap.String("step", s.ID),
			zap.String("kind", string(s.Kind)))
		r.renderForm(&b, s, options)
	}

	b.WriteString("</section>\n")
	return []byte(b.String()), nil
}

func writeStepChrome(b *strings.Builder, s schema.Step, stepError string) {
	b.WriteString(`<section class="onboard-step" data-step="`)
	b.WriteString(html.EscapeString(s.ID))
	b.WriteString("\">\n")

	if s.Icon != "" {
		// Icon markup is sanitized at schema load time.
		b.WriteString(`  <span class="onboard-step-icon">`)
		b.WriteString(s.Icon)
		b.WriteString("</span>\n")
	}
	if s.Title != "" {
		b.WriteString(`  <h2 class="text-lg font-semibold">`)
		b.WriteString(html.EscapeString(s.Title))
		b.WriteString("</h2>\n")
	}
	if desc := strings.TrimSpace(s.Description); desc != "" {
		b.WriteString(`  <p class="text-sm text-gray-500">`)
		b.WriteString(html.EscapeString(desc))
		b.WriteString("</p>\n")
	}
	if msg := strings.TrimSpace(stepError); msg != "" {
		b.WriteString(`  <div class="onboard-step-error text-sm text-red-600" role="alert">`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString("</div>\n")
	}
}

func (r *Renderer) renderForm(b *strings.Builder, s schema.Step, options render.StepOptions) {
	b.WriteString("  <div class=\"grid gap-4\">\n")
	for _, field := range s.Fields {
		if !visibility.Visible(field.VisibleWhen, options.Values) {
			continue
		}
		markup := r.renderField(field, options.Values[field.Name], options.Errors[field.Name])
		writeIndented(b, markup)
	}
	b.WriteString("  </div>\n")
}

func (r *Renderer) renderCatalog(b *strings.Builder, s schema.Step, options render.StepOptions) {
	list := catalog.NewList(options.Values[step.CatalogItemsKey])

	b.WriteString("  <table class=\"onboard-catalog w-full text-sm\">\n    <thead><tr>\n")
	for _, field := range s.Fields {
		b.WriteString("      <th>")
		b.WriteString(html.EscapeString(field.DisplayLabel()))
		b.WriteString("</th>\n")
	}
	b.WriteString("      <th></th>\n    </tr></thead>\n    <tbody>\n")
	for _, item := range list.Items() {
		b.WriteString("      <tr data-item=\"")
		b.WriteString(html.EscapeString(item.ID()))
		b.WriteString("\">\n")
		for _, field := range s.Fields {
			b.WriteString("        <td>")
			b.WriteString(html.EscapeString(displayValue(field, item[field.Name])))
			b.WriteString("</td>\n")
		}
		b.WriteString("        <td><button type=\"button\" data-action=\"remove-item\">Sil</button></td>\n      </tr>\n")
	}
	b.WriteString("    </tbody>\n  </table>\n")

	// Draft entry row: one control per configured field, committed via the
	// add-item action rather than the wizard's advance.
	b.WriteString("  <div class=\"onboard-catalog-draft grid gap-2\" data-draft>\n")
	for _, field := range s.Fields {
		markup := r.renderField(field, options.Values[step.DraftKey(field.Name)], "")
		writeIndented(b, markup)
	}
	b.WriteString("    <button type=\"button\" data-action=\"add-item\">Ekle</button>\n")
	if s.CSVSupport {
		b.WriteString("    <input type=\"file\" accept=\".csv\" data-action=\"import-file\" data-table=\"")
		b.WriteString(html.EscapeString(s.CatalogTable))
		b.WriteString("\">\n")
	}
	b.WriteString("  </div>\n")
}

func (r *Renderer) renderWorkingHours(b *strings.Builder, s schema.Step, options render.StepOptions) {
	week, ok := schedule.FromValue(options.Values[step.WorkingHoursKey])
	if !ok {
		week = schedule.DefaultWeek()
	}

	b.WriteString("  <div class=\"onboard-hours grid gap-2\">\n")
	for day := schedule.Sunday; day <= schedule.Saturday; day++ {
		hours := week[day]
		b.WriteString(fmt.Sprintf("    <div class=\"onboard-hours-day\" data-day=\"%d\">\n", day))
		b.WriteString("      <label><input type=\"checkbox\" data-action=\"toggle-day\"")
		if hours.IsOpen {
			b.WriteString(" checked")
		}
		b.WriteString("> ")
		b.WriteString(dayNames[day])
		b.WriteString("</label>\n")
		b.WriteString("      <input type=\"time\" name=\"open_time\" value=\"")
		b.WriteString(html.EscapeString(hours.Open))
		b.WriteString("\"")
		if !hours.IsOpen {
			b.WriteString(" disabled")
		}
		b.WriteString(">\n      <input type=\"time\" name=\"close_time\" value=\"")
		b.WriteString(html.EscapeString(hours.Close))
		b.WriteString("\"")
		if !hours.IsOpen {
			b.WriteString(" disabled")
		}
		b.WriteString(">\n    </div>\n")
	}
	b.WriteString("  </div>\n")
}

func (r *Renderer) renderComponent(b *strings.Builder, s schema.Step, options render.StepOptions) error {
	renderer, ok := r.components.Resolve(s.Component)
	if !ok {
		r.logger.Warn("component not registered, rendering empty step",
			zap.String("step", s.ID),
			zap.String("component", s.Component))
		return nil
	}

	var buf bytes.Buffer
	if err := renderer(&buf, s, options); err != nil {
		return fmt.Errorf("html: render component %q for step %q: %w", s.Component, s.ID, err)
	}
	writeIndented(b, buf.String())
	return nil
}

func writeIndented(b *strings.Builder, markup string) {
	for _, line := range strings.Split(markup, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
