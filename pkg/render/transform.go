package render

import (
	"strconv"
	"strings"
)

// ToggleSelection returns the multiselect value list with one entry flipped:
// present values are removed, absent values appended. Order of the remaining
// entries is preserved; the input slice is never mutated.
func ToggleSelection(selected []string, value string) []string {
	for idx, entry := range selected {
		if entry == value {
			out := make([]string, 0, len(selected)-1)
			out = append(out, selected[:idx]...)
			return append(out, selected[idx+1:]...)
		}
	}
	out := make([]string, 0, len(selected)+1)
	out = append(out, selected...)
	return append(out, value)
}

// ParseCurrency strips formatting characters from user input and parses the
// remaining digits. The value bag always stores the raw numeric value; the
// formatted string exists only on screen, so anything FormatCurrency prints
// must parse back to the same number ("1.500" is 1500, not 1.5).
func ParseCurrency(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '.', r == ',':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(normalizeSeparators(cleaned), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// normalizeSeparators removes digit grouping and rewrites the decimal
// separator, if any, as the dot strconv expects.
func normalizeSeparators(s string) string {
	dec := decimalIndex(s)
	var b strings.Builder
	for idx, r := range s {
		if r == '.' || r == ',' {
			if idx == dec {
				b.WriteByte('.')
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// decimalIndex locates the decimal separator in s, or -1 when every
// separator is digit grouping. Only the last separator can mark decimals; a
// repeated separator is always grouping, and a lone separator followed by
// exactly three digits reads as grouping too.
func decimalIndex(s string) int {
	last := strings.LastIndexAny(s, ".,")
	if last < 0 {
		return -1
	}
	if strings.Count(s, s[last:last+1]) > 1 {
		return -1
	}
	if len(s)-last-1 == 3 && !strings.ContainsAny(s[:last], ".,") {
		return -1
	}
	return last
}

// FormatCurrency renders a raw numeric value for display using Turkish
// conventions (dot thousands separator, comma decimals).
func FormatCurrency(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	parts := strings.SplitN(formatted, ".", 2)
	whole, frac := parts[0], parts[1]

	negative := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for idx, digit := range whole {
		if idx > 0 && (len(whole)-idx)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
