package html

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schema"
)

// renderField maps one descriptor plus its current value to a concrete
// control. Dispatch is strictly on the descriptor type; unknown types fall
// back to a plain text control with a non-fatal warning.
func (r *Renderer) renderField(field schema.Field, value any, errMsg string) string {
	var control string
	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeEmail, schema.FieldTypeTel, schema.FieldTypeTime:
		control = inputControl(field, string(field.Type), stringify(value))
	case schema.FieldTypePassword:
		control = passwordControl(field, stringify(value))
	case schema.FieldTypeTextarea:
		control = textareaControl(field, stringify(value))
	case schema.FieldTypeNumber:
		control = numberControl(field, value)
	case schema.FieldTypeCurrency:
		control = currencyControl(field, value)
	case schema.FieldTypeSelect:
		control = selectControl(field, stringify(value))
	case schema.FieldTypeMultiSelect:
		control = multiSelectControl(field, selectedValues(value))
	case schema.FieldTypeCheckbox:
		control = checkboxControl(field, value)
	default:
		r.logger.Warn("unknown field type, falling back to text input",
			zap.String("field", field.Name),
			zap.String("type", string(field.Type)))
		control = inputControl(field, "text", stringify(value))
	}
	return wrapField(field, control, errMsg)
}

func wrapField(field schema.Field, control, errMsg string) string {
	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="grid gap-2" data-field="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if field.Width != "" {
		b.WriteString(` data-width="`)
		b.WriteString(html.EscapeString(field.Width))
		b.WriteString(`"`)
	}
	b.WriteString(">\n")

	if strings.TrimSpace(field.Label) != "" {
		b.WriteString(`    <label for="ob-`)
		b.WriteString(html.EscapeString(field.Name))
		b.WriteString(`" class="text-sm font-medium text-gray-900">`)
		b.WriteString(html.EscapeString(field.Label))
		if field.Required {
			b.WriteString(` *`)
		}
		b.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if hint := strings.TrimSpace(field.Hint); hint != "" {
		b.WriteString(`    <small class="text-sm text-gray-500">`)
		b.WriteString(html.EscapeString(hint))
		b.WriteString("</small>\n")
	}
	if msg := strings.TrimSpace(errMsg); msg != "" {
		b.WriteString(`    <small class="text-sm text-red-600" data-error>`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString("</small>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func inputControl(field schema.Field, inputType, value string) string {
	var b strings.Builder
	b.WriteString(`<input type="`)
	b.WriteString(inputType)
	b.WriteString(`"`)
	writeCommonAttrs(&b, field)
	if value != "" {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`"`)
	}
	writeLengthAttrs(&b, field)
	b.WriteString(">\n")
	return b.String()
}

func passwordControl(field schema.Field, value string) string {
	var b strings.Builder
	b.WriteString(`<div class="relative" data-password>` + "\n")
	b.WriteString(`  <input type="password"`)
	writeCommonAttrs(&b, field)
	if value != "" {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`"`)
	}
	writeLengthAttrs(&b, field)
	b.WriteString(">\n")
	// Visibility is ephemeral UI state; toggling never touches the value bag.
	b.WriteString(`  <button type="button" data-action="toggle-visibility" aria-label="Şifreyi göster"></button>` + "\n")
	b.WriteString("</div>\n")
	return b.String()
}

func textareaControl(field schema.Field, value string) string {
	var b strings.Builder
	b.WriteString(`<textarea rows="4"`)
	writeCommonAttrs(&b, field)
	writeLengthAttrs(&b, field)
	b.WriteString(">")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</textarea>\n")
	return b.String()
}

func numberControl(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<input type="number"`)
	writeCommonAttrs(&b, field)
	if rules := field.Validation; rules != nil {
		if rules.Min != nil {
			b.WriteString(fmt.Sprintf(` min="%s"`, formatNumber(*rules.Min)))
		}
		if rules.Max != nil {
			b.WriteString(fmt.Sprintf(` max="%s"`, formatNumber(*rules.Max)))
		}
		if rules.Step != nil {
			b.WriteString(fmt.Sprintf(` step="%s"`, formatNumber(*rules.Step)))
		}
	}
	if value != nil {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(stringify(value)))
		b.WriteString(`"`)
	}
	b.WriteString(">\n")
	return b.String()
}

// currencyControl shows the locale-formatted amount while carrying the raw
// numeric value in data-raw; parsing back happens through
// render.ParseCurrency on change.
func currencyControl(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<input type="text" inputmode="decimal" data-currency`)
	writeCommonAttrs(&b, field)
	if num, ok := asFloat(value); ok {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(render.FormatCurrency(num)))
		b.WriteString(`" data-raw="`)
		b.WriteString(formatNumber(num))
		b.WriteString(`"`)
	}
	b.WriteString(">\n")
	return b.String()
}

func selectControl(field schema.Field, value string) string {
	var b strings.Builder
	b.WriteString(`<select`)
	writeCommonAttrs(&b, field)
	b.WriteString(">\n")
	b.WriteString("  <option value=\"\"></option>\n")

	found := false
	for _, option := range field.Options {
		b.WriteString(`  <option value="`)
		b.WriteString(html.EscapeString(option.Value))
		b.WriteString(`"`)
		if option.Value == value && value != "" {
			b.WriteString(" selected")
			found = true
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(option.Label))
		b.WriteString("</option>\n")
	}
	// Custom values committed through the sibling input need not exist in the
	// configured options.
	if !found && value != "" {
		b.WriteString(`  <option value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`" selected>`)
		b.WriteString(html.EscapeString(value))
		b.WriteString("</option>\n")
	}
	b.WriteString("</select>\n")

	if field.AllowCustom {
		b.WriteString(`<input type="text" data-action="custom-option" data-commit="blur" placeholder="Diğer...">` + "\n")
	}
	return b.String()
}

func multiSelectControl(field schema.Field, selected []string) string {
	chosen := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		chosen[value] = struct{}{}
	}

	var b strings.Builder
	b.WriteString(`<fieldset class="grid gap-1" data-multiselect>` + "\n")
	for _, option := range field.Options {
		b.WriteString(`  <label><input type="checkbox" value="`)
		b.WriteString(html.EscapeString(option.Value))
		b.WriteString(`"`)
		if _, ok := chosen[option.Value]; ok {
			b.WriteString(" checked")
		}
		if field.Disabled {
			b.WriteString(" disabled")
		}
		b.WriteString("> ")
		b.WriteString(html.EscapeString(option.Label))
		b.WriteString("</label>\n")
	}
	b.WriteString("</fieldset>\n")
	return b.String()
}

func checkboxControl(field schema.Field, value any) string {
	var b strings.Builder
	b.WriteString(`<input type="checkbox"`)
	writeCommonAttrs(&b, field)
	if checked, ok := value.(bool); ok && checked {
		b.WriteString(" checked")
	}
	b.WriteString(">\n")
	return b.String()
}

func writeCommonAttrs(b *strings.Builder, field schema.Field) {
	b.WriteString(` id="ob-`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.Name))
	b.WriteString(`"`)
	if field.Placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(field.Placeholder))
		b.WriteString(`"`)
	}
	if field.Required {
		b.WriteString(" required")
	}
	if field.Disabled {
		b.WriteString(" disabled")
	}
}

func writeLengthAttrs(b *strings.Builder, field schema.Field) {
	rules := field.Validation
	if rules == nil {
		return
	}
	if rules.MinLength != nil {
		b.WriteString(fmt.Sprintf(` minlength="%d"`, *rules.MinLength))
	}
	if rules.MaxLength != nil {
		b.WriteString(fmt.Sprintf(` maxlength="%d"`, *rules.MaxLength))
	}
}

func displayValue(field schema.Field, value any) string {
	if field.Type == schema.FieldTypeCurrency {
		if num, ok := asFloat(value); ok {
			return render.FormatCurrency(num)
		}
	}
	return stringify(value)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

func selectedValues(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			out = append(out, fmt.Sprint(entry))
		}
		return out
	default:
		return nil
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return render.ParseCurrency(v)
	default:
		return 0, false
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
