// Package cfgerr defines the error taxonomy shared by the profile and project
// configuration editors.
//
// Errors come in two layers: exported sentinel values (ErrValidation,
// ErrNotFound, ...) for errors.Is matching, and typed structs carrying the
// offending field/entity for errors.As inspection. Core errors are always
// returned before any mutation happens, so a failed operation never leaves a
// document (in memory or on disk) in a partially modified state.
package cfgerr
