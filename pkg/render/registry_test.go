package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schema"
)

type fakeRenderer struct{ name string }

func (f fakeRenderer) Name() string        { return f.name }
func (f fakeRenderer) ContentType() string { return "text/plain" }
func (f fakeRenderer) RenderStep(ctx context.Context, step schema.Step, options render.StepOptions) ([]byte, error) {
	return []byte(step.ID), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(fakeRenderer{name: "html"}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := registry.Register(fakeRenderer{name: "html"}); err == nil {
		t.Fatal("Register() accepted a duplicate name")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("Register() accepted nil")
	}
	if err := registry.Register(fakeRenderer{}); err == nil {
		t.Fatal("Register() accepted an empty name")
	}

	got, err := registry.Get("html")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("Get() returned %q", got.Name())
	}

	if _, err := registry.Get("missing"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("Get(missing) = %v", err)
	}
}

func TestRegistryList(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(fakeRenderer{name: "tui"})
	registry.MustRegister(fakeRenderer{name: "html"})

	want := []string{"html", "tui"}
	if diff := cmp.Diff(want, registry.List()); diff != "" {
		t.Fatalf("List() mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("tui") || registry.Has("vanilla") {
		t.Fatal("Has() misreports membership")
	}
}
