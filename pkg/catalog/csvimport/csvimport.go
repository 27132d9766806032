// Package csvimport provides a ready-made implementation of the wizard's
// file-ingestion hook for catalog steps with csvSupport enabled. Hosts that
// ingest other formats (or parse server-side) supply their own hook instead.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schema"
)

// Parse reads CSV records and maps them onto the step's configured fields.
// The header row is matched case-insensitively against field names first,
// then labels. Columns with no matching field are dropped; numeric fields
// are parsed, with currency columns additionally stripped of formatting.
func Parse(r io.Reader, fields []schema.Field) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csvimport: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("csvimport: read header: %w", err)
	}

	columns := matchColumns(header, fields)

	var items []map[string]any
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvimport: line %d: %w", line, err)
		}

		item := make(map[string]any)
		for idx, field := range columns {
			if field == nil || idx >= len(record) {
				continue
			}
			raw := strings.TrimSpace(record[idx])
			if raw == "" {
				continue
			}
			item[field.Name] = coerce(*field, raw)
		}
		if len(item) > 0 {
			items = append(items, item)
		}
	}
	return items, nil
}

func matchColumns(header []string, fields []schema.Field) []*schema.Field {
	columns := make([]*schema.Field, len(header))
	for idx, name := range header {
		needle := strings.ToLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for i := range fields {
			if strings.ToLower(fields[i].Name) == needle || strings.ToLower(fields[i].Label) == needle {
				columns[idx] = &fields[i]
				break
			}
		}
	}
	return columns
}

func coerce(field schema.Field, raw string) any {
	switch field.Type {
	case schema.FieldTypeNumber:
		if num, err := strconv.ParseFloat(raw, 64); err == nil {
			return num
		}
	case schema.FieldTypeCurrency:
		if num, ok := render.ParseCurrency(raw); ok {
			return num
		}
	case schema.FieldTypeCheckbox:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}
