// Package components hosts the extension point for custom step rendering.
// Steps that set a component name delegate their whole surface to an
// externally registered renderer; unresolved names degrade to an empty step
// rather than failing the wizard.
package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/schema"
)

// Renderer writes a custom step's markup into buf. Implementations receive
// the full step descriptor plus the current render options.
type Renderer func(buf *bytes.Buffer, step schema.Step, options render.StepOptions) error

// Registry tracks component renderers keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Renderer
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Renderer),
	}
}

// Register associates a renderer with the provided name. Existing entries are
// replaced so hosts can override defaults.
func (r *Registry) Register(name string, renderer Renderer) error {
	name = normalize(name)
	if name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[name] = renderer
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, renderer Renderer) {
	if err := r.Register(name, renderer); err != nil {
		panic(err)
	}
}

// Resolve fetches a renderer by name.
func (r *Registry) Resolve(name string) (Renderer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.components[normalize(name)]
	return renderer, ok
}

// Names returns a sorted slice of registered component names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
