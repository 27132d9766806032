package html

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-onboard/pkg/render/components"
)

// Option configures the HTML renderer.
type Option func(*Renderer)

// WithComponents supplies the registry consulted for component steps.
func WithComponents(registry *components.Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.components = registry
		}
	}
}

// WithLogger overrides the no-op default logger. Degrade-gracefully paths
// (unknown field types, unresolved components) log warnings through it.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
