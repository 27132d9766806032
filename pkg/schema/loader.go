package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a single schema document from JSON or YAML. Unknown keys are
// ignored; missing optional keys fall back to their documented defaults. The
// returned document is normalised and checked against the step invariants.
func Parse(data []byte, source string) (Document, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return Document{}, err
	}
	if err := normalise(&doc, source); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// LoadFS walks the provided filesystem and parses the first JSON/YAML schema
// document it finds at path. Convenience for embedded defaults and disk
// layouts that mirror them.
func LoadFS(fsys fs.FS, path string) (Document, error) {
	if fsys == nil {
		return Document{}, fmt.Errorf("schema: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

func parseDocument(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("schema: file %s is empty", source)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("schema: parse %s: %w", source, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("schema: parse %s: %w", source, err)
		}
	default:
		// Sniff: JSON documents start with an object or array.
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			if err := json.Unmarshal(data, &doc); err != nil {
				return Document{}, fmt.Errorf("schema: parse %s: %w", source, err)
			}
		} else if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("schema: parse %s: %w", source, err)
		}
	}
	return doc, nil
}

func normalise(doc *Document, source string) error {
	if len(doc.Steps) == 0 {
		return fmt.Errorf("schema: file %s defines no steps", source)
	}

	seen := make(map[string]struct{}, len(doc.Steps))
	for i := range doc.Steps {
		step := &doc.Steps[i]
		step.ID = strings.TrimSpace(step.ID)
		if step.ID == "" {
			return fmt.Errorf("schema: file %s: step %d has an empty id", source, i)
		}
		if _, exists := seen[step.ID]; exists {
			return fmt.Errorf("schema: file %s: duplicate step id %q", source, step.ID)
		}
		seen[step.ID] = struct{}{}

		if err := normaliseStep(step, source); err != nil {
			return err
		}
	}
	return nil
}

func normaliseStep(step *Step, source string) error {
	switch step.Kind {
	case "", StepKindForm, StepKindCatalog, StepKindWorkingHours, StepKindComponent:
	default:
		return fmt.Errorf("schema: file %s: step %q has unknown type %q", source, step.ID, step.Kind)
	}

	if step.Kind == StepKindComponent && strings.TrimSpace(step.Component) == "" {
		return fmt.Errorf("schema: file %s: step %q is a component step without a component name", source, step.ID)
	}

	if step.UsesFields() && len(step.Fields) == 0 {
		return fmt.Errorf("schema: file %s: step %q requires fields", source, step.ID)
	}

	step.Icon = sanitizeIconMarkup(step.Icon)

	names := make(map[string]struct{}, len(step.Fields))
	for i := range step.Fields {
		field := &step.Fields[i]
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return fmt.Errorf("schema: file %s: step %q field %d has an empty name", source, step.ID, i)
		}
		if _, exists := names[field.Name]; exists {
			return fmt.Errorf("schema: file %s: step %q has duplicate field %q", source, step.ID, field.Name)
		}
		names[field.Name] = struct{}{}

		if field.Type == "" {
			field.Type = FieldTypeText
		}
	}
	return nil
}
