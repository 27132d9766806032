package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/visibility"
)

// StepErrorKey is the reserved ErrorMap key for whole-step errors (catalog
// draft rejections, submission failures). Field names never collide with it
// because schema loading trims names and none start with an underscore by
// convention.
const StepErrorKey = "_step"

// ErrorMap collects at most one message per field name for the active step.
// It is recomputed on every validation pass and discarded on advance.
type ErrorMap map[string]string

// Empty reports whether the map carries no messages.
func (m ErrorMap) Empty() bool { return len(m) == 0 }

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telPattern   = regexp.MustCompile(`^[0-9+()\-\s]+$`)
)

// Validate applies each field's rules against the value bag and returns the
// resulting error map. Evaluation per field stops at the first failing rule:
// required, length bounds, numeric bounds, pattern, then the type-specific
// email/tel checks. Empty non-required values short-circuit to valid, and
// fields hidden by their visibleWhen rule are skipped entirely. The function
// is pure and synchronous so callers can run it on every change.
func Validate(fields []schema.Field, values map[string]any) ErrorMap {
	errs := make(ErrorMap)
	for _, field := range fields {
		if !visibility.Visible(field.VisibleWhen, values) {
			continue
		}
		if msg := validateField(field, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

func validateField(field schema.Field, value any) string {
	empty := isEmpty(value)
	if field.Required && empty {
		return fmt.Sprintf("%s zorunludur", field.DisplayLabel())
	}
	if empty {
		return ""
	}

	rules := field.Validation
	str, isString := stringValue(value)

	if rules != nil && isString {
		if rules.MinLength != nil && len([]rune(str)) < *rules.MinLength {
			return fmt.Sprintf("%s en az %d karakter olmalıdır", field.DisplayLabel(), *rules.MinLength)
		}
		if rules.MaxLength != nil && len([]rune(str)) > *rules.MaxLength {
			return fmt.Sprintf("%s en fazla %d karakter olmalıdır", field.DisplayLabel(), *rules.MaxLength)
		}
	}

	if rules != nil {
		if num, ok := numericValue(value); ok {
			if rules.Min != nil && num < *rules.Min {
				return fmt.Sprintf("%s en az %s olmalıdır", field.DisplayLabel(), formatBound(*rules.Min))
			}
			if rules.Max != nil && num > *rules.Max {
				return fmt.Sprintf("%s en fazla %s olmalıdır", field.DisplayLabel(), formatBound(*rules.Max))
			}
		}
	}

	// Pattern rules only make sense for string values; checkbox and
	// multiselect values skip them.
	if rules != nil && rules.Pattern != "" && isString {
		re, err := regexp.Compile(rules.Pattern)
		if err == nil && !re.MatchString(str) {
			if rules.PatternMessage != "" {
				return rules.PatternMessage
			}
			return fmt.Sprintf("%s geçerli formatta değil", field.DisplayLabel())
		}
	}

	switch field.Type {
	case schema.FieldTypeEmail:
		if isString && !emailPattern.MatchString(str) {
			return "Geçerli bir email adresi girin"
		}
	case schema.FieldTypeTel:
		if isString && !validTel(str) {
			return "Geçerli bir telefon numarası girin"
		}
	}
	return ""
}

func validTel(value string) bool {
	if !telPattern.MatchString(value) {
		return false
	}
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func stringValue(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}
