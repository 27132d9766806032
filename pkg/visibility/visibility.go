// Package visibility evaluates the visibleWhen rules carried by field
// descriptors. Rules are small boolean expressions over the wizard's value
// bag: `businessType == "kuafor"`, `newsletter`, `a != "" && !b`. Hidden
// fields are skipped by both the validation engine and the renderers, so a
// rule that fails to parse degrades to visible rather than hiding input the
// user may need.
package visibility

import (
	"fmt"
	"strconv"
	"strings"
)

// Visible reports whether a field with the given rule should be shown against
// the current values. Empty rules and unparseable rules are visible.
func Visible(rule string, values map[string]any) bool {
	shown, err := Eval(rule, values)
	if err != nil {
		return true
	}
	return shown
}

// Eval parses and evaluates one rule. Unlike Visible it surfaces parse
// errors, which schema linting hooks can use to reject bad documents early.
func Eval(rule string, values map[string]any) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	p := &parser{input: trimmed, values: values}
	result, err := p.parseOr()
	if err != nil {
		return false, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return false, fmt.Errorf("visibility: unexpected %q at offset %d", p.input[p.pos:], p.pos)
	}
	return result, nil
}

type parser struct {
	input  string
	pos    int
	values map[string]any
}

func (p *parser) parseOr() (bool, error) {
	left, err := p.parseAnd()
	if err != nil {
		return false, err
	}
	for p.consumeOperator("||") {
		right, err := p.parseAnd()
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

func (p *parser) parseAnd() (bool, error) {
	left, err := p.parseUnary()
	if err != nil {
		return false, err
	}
	for p.consumeOperator("&&") {
		right, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

func (p *parser) parseUnary() (bool, error) {
	p.skipSpace()
	if p.peek() == '!' && !p.startsWith("!=") {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return false, err
		}
		return !inner, nil
	}
	if p.peek() == '(' {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return false, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return false, fmt.Errorf("visibility: missing closing parenthesis at offset %d", p.pos)
		}
		p.pos++
		return inner, nil
	}
	return p.parseComparison()
}

// parseComparison handles `operand`, `operand == operand` and
// `operand != operand`. A lone operand is a truthiness check.
func (p *parser) parseComparison() (bool, error) {
	left, err := p.parseOperand()
	if err != nil {
		return false, err
	}
	p.skipSpace()
	switch {
	case p.consumeOperator("=="):
		right, err := p.parseOperand()
		if err != nil {
			return false, err
		}
		return equal(left, right), nil
	case p.consumeOperator("!="):
		right, err := p.parseOperand()
		if err != nil {
			return false, err
		}
		return !equal(left, right), nil
	default:
		return truthy(left), nil
	}
}

func (p *parser) parseOperand() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("visibility: unexpected end of rule")
	}

	ch := p.input[p.pos]
	switch {
	case ch == '"' || ch == '\'':
		return p.parseString(ch)
	case ch == '-' || (ch >= '0' && ch <= '9'):
		return p.parseNumber()
	}

	name := p.parseIdentifier()
	if name == "" {
		return nil, fmt.Errorf("visibility: unexpected %q at offset %d", string(ch), p.pos)
	}
	switch name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	return lookup(p.values, name), nil
}

func (p *parser) parseString(quote byte) (any, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return b.String(), nil
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			ch = p.input[p.pos]
		}
		b.WriteByte(ch)
		p.pos++
	}
	return nil, fmt.Errorf("visibility: unterminated string at offset %d", start)
}

func (p *parser) parseNumber() (any, error) {
	start := p.pos
	if p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if (ch >= '0' && ch <= '9') || ch == '.' {
			p.pos++
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("visibility: bad number %q", p.input[start:p.pos])
	}
	return num, nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == '_' || ch == '.' || ch == '-' ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) startsWith(prefix string) bool {
	return strings.HasPrefix(p.input[p.pos:], prefix)
}

func (p *parser) consumeOperator(op string) bool {
	p.skipSpace()
	if p.startsWith(op) {
		p.pos += len(op)
		return true
	}
	return false
}

// lookup resolves a dot path against the value bag, descending through
// nested map[string]any entries.
func lookup(values map[string]any, path string) any {
	current := any(values)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

// equal compares loosely across the types a value bag round-trips through:
// numbers compare numerically regardless of concrete type, everything else
// by string form.
func equal(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	if ln, lok := asNumber(left); lok {
		if rn, rok := asNumber(right); rok {
			return ln == rn
		}
	}
	return fmt.Sprint(left) == fmt.Sprint(right)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
