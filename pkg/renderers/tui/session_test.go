package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-onboard/pkg/catalog"
	"github.com/goliatone/go-onboard/pkg/schedule"
	"github.com/goliatone/go-onboard/pkg/schema"
	"github.com/goliatone/go-onboard/pkg/wizard"

	"github.com/goliatone/go-onboard/pkg/renderers/tui"
)

// stubDriver replays scripted answers; exhausting a queue fails the run so
// tests catch unexpected prompts.
type stubDriver struct {
	inputs    []string
	passwords []string
	confirms  []bool
	selects   []int
	multis    [][]int
	texts     []string

	infos []string

	// echoDefaults serves prompts from the config defaults once the
	// corresponding queue is empty.
	echoDefaults bool
}

func (d *stubDriver) Input(ctx context.Context, cfg tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		if d.echoDefaults {
			return cfg.Default, nil
		}
		return "", errors.New("stub: input script exhausted")
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *stubDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	if len(d.passwords) == 0 {
		return "", errors.New("stub: password script exhausted")
	}
	next := d.passwords[0]
	d.passwords = d.passwords[1:]
	return next, nil
}

func (d *stubDriver) Confirm(ctx context.Context, cfg tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		if d.echoDefaults {
			return cfg.Default, nil
		}
		return false, errors.New("stub: confirm script exhausted")
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *stubDriver) Select(ctx context.Context, cfg tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, errors.New("stub: select script exhausted")
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *stubDriver) MultiSelect(ctx context.Context, cfg tui.SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		return nil, errors.New("stub: multiselect script exhausted")
	}
	next := d.multis[0]
	d.multis = d.multis[1:]
	return next, nil
}

func (d *stubDriver) TextArea(ctx context.Context, cfg tui.InputConfig) (string, error) {
	if len(d.texts) == 0 {
		return "", errors.New("stub: textarea script exhausted")
	}
	next := d.texts[0]
	d.texts = d.texts[1:]
	return next, nil
}

func (d *stubDriver) Info(ctx context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func newController(t *testing.T, steps ...schema.Step) *wizard.Controller {
	t.Helper()
	c, err := wizard.New(schema.Document{Steps: steps})
	if err != nil {
		t.Fatalf("wizard.New() error: %v", err)
	}
	return c
}

func runSession(t *testing.T, driver *stubDriver, c *wizard.Controller) {
	t.Helper()
	session := tui.NewSession(tui.WithPromptDriver(driver))
	if err := session.Run(context.Background(), c); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !c.Completed() {
		t.Fatal("session returned before completion")
	}
}

func TestSessionRunsFormStep(t *testing.T) {
	c := newController(t, schema.Step{
		ID:    "register",
		Title: "Hesap Oluştur",
		Fields: []schema.Field{
			{Name: "email", Label: "Email", Type: schema.FieldTypeEmail, Required: true},
			{Name: "password", Label: "Şifre", Type: schema.FieldTypePassword, Required: true},
		},
	})

	driver := &stubDriver{
		inputs:    []string{"ayse@example.com"},
		passwords: []string{"gizli-sifre"},
	}
	runSession(t, driver, c)

	values := c.Values()
	if values["email"] != "ayse@example.com" || values["password"] != "gizli-sifre" {
		t.Fatalf("values = %v", values)
	}
	if len(driver.infos) == 0 || driver.infos[0] != "== Hesap Oluştur" {
		t.Fatalf("step title not announced: %v", driver.infos)
	}
}

func TestSessionRepromptsOnValidationError(t *testing.T) {
	c := newController(t, schema.Step{
		ID: "register",
		Fields: []schema.Field{
			{Name: "email", Label: "Email", Type: schema.FieldTypeEmail, Required: true},
		},
	})

	driver := &stubDriver{
		inputs: []string{"", "ayse@example.com"},
	}
	runSession(t, driver, c)

	if c.Values()["email"] != "ayse@example.com" {
		t.Fatalf("values = %v", c.Values())
	}

	var sawError bool
	for _, msg := range driver.infos {
		if strings.Contains(msg, "Email zorunludur") {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("validation message never surfaced: %v", driver.infos)
	}
}

func TestSessionCollectsCatalogItems(t *testing.T) {
	c := newController(t, schema.Step{
		ID:   "services",
		Kind: schema.StepKindCatalog,
		Fields: []schema.Field{
			{Name: "name", Label: "Hizmet Adı", Required: true},
			{Name: "price", Label: "Fiyat", Type: schema.FieldTypeCurrency, Required: true},
		},
	})

	driver := &stubDriver{
		confirms: []bool{true, false}, // add one item, then stop
		inputs:   []string{"Saç Kesimi", "1.250,50"},
	}
	runSession(t, driver, c)

	items, ok := c.Values()["catalogItems"].([]catalog.Item)
	if !ok {
		t.Fatalf("catalogItems type %T", c.Values()["catalogItems"])
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
	if items[0]["name"] != "Saç Kesimi" || items[0]["price"] != 1250.5 {
		t.Fatalf("item = %+v", items[0])
	}
	if items[0].ID() == "" {
		t.Fatal("committed item has no id")
	}
}

func TestSessionSkipsSkippableStep(t *testing.T) {
	c := newController(t,
		schema.Step{
			ID:        "services",
			Kind:      schema.StepKindCatalog,
			Skippable: true,
			SkipLabel: "Şimdilik atla",
			Fields: []schema.Field{
				{Name: "name", Label: "Hizmet Adı", Required: true},
			},
		},
	)

	driver := &stubDriver{
		confirms: []bool{false, true}, // decline adding, accept the skip
	}
	runSession(t, driver, c)

	if _, exists := c.Values()["catalogItems"]; exists {
		t.Fatal("skipped step wrote to the value bag")
	}
}

func TestSessionWalksWorkingHours(t *testing.T) {
	c := newController(t, schema.Step{ID: "hours", Kind: schema.StepKindWorkingHours})

	driver := &stubDriver{echoDefaults: true}
	runSession(t, driver, c)

	week, ok := c.Values()["workingHours"].(schedule.Week)
	if !ok {
		t.Fatalf("workingHours type %T", c.Values()["workingHours"])
	}
	if !week[schedule.Monday].IsOpen || week[schedule.Monday].Open != "09:00" {
		t.Fatalf("monday = %+v", week[schedule.Monday])
	}
	if week[schedule.Sunday].IsOpen {
		t.Fatal("sunday opened by default")
	}
}

func TestSessionSelectAndCustomOption(t *testing.T) {
	c := newController(t, schema.Step{
		ID: "business",
		Fields: []schema.Field{
			{
				Name: "businessType", Label: "İşletme Türü", Type: schema.FieldTypeSelect,
				Required: true, AllowCustom: true,
				Options: []schema.Option{
					{Value: "kuafor", Label: "Kuaför"},
					{Value: "berber", Label: "Berber"},
				},
			},
		},
	})

	// Choosing the trailing "Diğer..." entry falls through to free text.
	driver := &stubDriver{
		selects: []int{2},
		inputs:  []string{"Güzellik Salonu"},
	}
	runSession(t, driver, c)

	if got := c.Values()["businessType"]; got != "Güzellik Salonu" {
		t.Fatalf("businessType = %v", got)
	}
}

func TestSessionAbortPropagates(t *testing.T) {
	c := newController(t, schema.Step{
		ID: "register",
		Fields: []schema.Field{
			{Name: "email", Label: "Email", Type: schema.FieldTypeEmail, Required: true},
		},
	})

	session := tui.NewSession(tui.WithPromptDriver(&stubDriver{})) // empty script
	err := session.Run(context.Background(), c)
	if err == nil {
		t.Fatal("Run() swallowed the driver failure")
	}
	if c.Completed() {
		t.Fatal("aborted run completed the wizard")
	}
}
