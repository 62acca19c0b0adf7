// Package errors provides the classified error type used across moxide.
//
// Every failure the build pipeline reports carries an ErrorCategory that names
// its kind (io, metadata_decode, invalid_data_block, render_not_found, ...), an
// ErrorSeverity, and optional structured context. Per-entry failures in a build
// report are derived from these categories, and the CLI adapter maps them to
// process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRenderFailed, "renderer failed").
//		WithContext("renderer", name).
//		WithContext("source", path).
//		Build()
package errors
