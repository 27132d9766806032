// Package schema defines the declarative step and field descriptors the
// onboarding engine interprets, plus loaders for the JSON/YAML documents that
// carry them. Descriptors are data, not behaviour: the step interpreter and
// renderers consume them, hosts author them (or derive them, e.g. from an
// OpenAPI operation via pkg/openapi).
package schema
