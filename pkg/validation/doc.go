// Package validation implements the pure, synchronous field validation engine
// used by the step interpreter. Errors are always returned as data keyed by
// field name, never raised, so callers can surface them inline next to the
// offending control.
package validation
