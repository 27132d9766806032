package csvimport_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/catalog/csvimport"
	"github.com/goliatone/go-onboard/pkg/schema"
)

var serviceFields = []schema.Field{
	{Name: "name", Label: "Hizmet Adı", Type: schema.FieldTypeText, Required: true},
	{Name: "price", Label: "Fiyat", Type: schema.FieldTypeCurrency, Required: true},
	{Name: "duration", Label: "Süre", Type: schema.FieldTypeNumber},
	{Name: "active", Label: "Aktif", Type: schema.FieldTypeCheckbox},
}

func TestParseMatchesHeaderByNameAndLabel(t *testing.T) {
	csv := strings.Join([]string{
		"Hizmet Adı,price,Süre,ACTIVE,unknown",
		"Saç Kesimi,250,45,true,ignored",
		"Manikür,₺1250.50,60,false,ignored",
		"Cilt Bakımı,1.500,30,true,ignored",
	}, "\n")

	got, err := csvimport.Parse(strings.NewReader(csv), serviceFields)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []map[string]any{
		{"name": "Saç Kesimi", "price": 250.0, "duration": 45.0, "active": true},
		{"name": "Manikür", "price": 1250.50, "duration": 60.0, "active": false},
		{"name": "Cilt Bakımı", "price": 1500.0, "duration": 30.0, "active": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSkipsBlankCells(t *testing.T) {
	csv := "name,price\nSaç Kesimi,\n,\n"
	got, err := csvimport.Parse(strings.NewReader(csv), serviceFields)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Parse() = %d records, want 1", len(got))
	}
	if _, exists := got[0]["price"]; exists {
		t.Fatalf("blank cell produced an entry: %+v", got[0])
	}
}

func TestParseKeepsUnparseableNumbersAsText(t *testing.T) {
	csv := "name,duration\nSaç Kesimi,kırk beş\n"
	got, err := csvimport.Parse(strings.NewReader(csv), serviceFields)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got[0]["duration"] != "kırk beş" {
		t.Fatalf("duration = %v, want raw text", got[0]["duration"])
	}
}

func TestParseEmptyFile(t *testing.T) {
	if _, err := csvimport.Parse(strings.NewReader(""), serviceFields); err == nil {
		t.Fatal("Parse() accepted an empty file")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	got, err := csvimport.Parse(strings.NewReader("name,price\n"), serviceFields)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Parse() = %d records, want 0", len(got))
	}
}
