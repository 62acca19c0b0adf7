package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the underlying cause.
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.cause = cause
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithContextMap adds multiple context values.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the pipeline's failure kinds.

// IOError creates a filesystem error.
func IOError(message string) *ErrorBuilder {
	return NewError(CategoryIO, message)
}

// MetadataDecodeError creates a front matter decode error.
func MetadataDecodeError(message string) *ErrorBuilder {
	return NewError(CategoryMetadataDecode, message)
}

// MetadataEncodeError creates a front matter encode error.
func MetadataEncodeError(message string) *ErrorBuilder {
	return NewError(CategoryMetadataEncode, message)
}

// InvalidDataBlockError creates a front matter delimiter error.
func InvalidDataBlockError(message string) *ErrorBuilder {
	return NewError(CategoryInvalidDataBlock, message)
}

// RenderNotFoundError creates an error for an unregistered renderer name.
func RenderNotFoundError(name string) *ErrorBuilder {
	return NewError(CategoryRenderNotFound, "renderer `"+name+"` not found").
		WithContext("renderer", name)
}

// RenderFailedError wraps a renderer's own failure.
func RenderFailedError(name string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryRenderFailed, "renderer `"+name+"` failed").
		WithContext("renderer", name)
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
