// Package validation binds request data and turns validator failures
// into field-level errors the client can act on.
//
// Request types carry `validate:"..."` struct tags and implement
// Validatable; the handler pipeline calls BindAndValidate before the
// handler body runs.
package validation
