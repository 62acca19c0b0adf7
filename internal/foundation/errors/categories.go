package errors

import "maps"

// ErrorCategory is the kind of a failure. Build reports expose it verbatim.
type ErrorCategory string

const (
	// CategoryIO covers filesystem read/write/remove failures.
	CategoryIO ErrorCategory = "io"
	// CategoryMetadataDecode covers malformed or incomplete front matter documents.
	CategoryMetadataDecode ErrorCategory = "metadata_decode"
	// CategoryMetadataEncode covers failures serializing front matter.
	CategoryMetadataEncode ErrorCategory = "metadata_encode"
	// CategoryInvalidDataBlock covers missing or malformed front matter delimiters.
	CategoryInvalidDataBlock ErrorCategory = "invalid_data_block"
	// CategoryRenderNotFound is reported when no renderer is registered under a name.
	CategoryRenderNotFound ErrorCategory = "render_not_found"
	// CategoryRenderFailed wraps a renderer's own failure.
	CategoryRenderFailed ErrorCategory = "render_failed"
	// CategoryOutputCollision is reported when two entries derive the same output path.
	CategoryOutputCollision ErrorCategory = "output_collision"
	// CategoryCanceled is reported for work skipped after context cancellation.
	CategoryCanceled ErrorCategory = "canceled"

	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the build
	SeverityError   ErrorSeverity = "error"   // Fails a single entry
	SeverityWarning ErrorSeverity = "warning" // Reported, build continues unaffected
	SeverityInfo    ErrorSeverity = "info"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
