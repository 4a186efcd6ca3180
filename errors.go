package sdk

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common SDK error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidRequest indicates a job request failed structural validation.
	ErrInvalidRequest = errors.New("invalid job request")

	// ErrInvalidBundle indicates a bundle failed structural validation or
	// could not be sealed.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrIntegrityMismatch indicates a bundle's canonicalization record does
	// not match the recomputed fingerprint of its contents.
	ErrIntegrityMismatch = errors.New("bundle integrity mismatch")

	// ErrPolicyRejected indicates an admission policy rejected a request.
	ErrPolicyRejected = errors.New("request rejected by policy")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindIntegrity represents errors where a content hash or fingerprint
	// did not match its payload.
	KindIntegrity = "integrity"

	// KindPolicy represents errors raised by admission policy evaluation.
	KindPolicy = "policy"

	// KindSerialization represents errors encoding or decoding payloads.
	KindSerialization = "serialization"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindIO represents errors reading or writing artifacts.
	KindIO = "io"

	// KindInternal represents internal SDK errors.
	KindInternal = "internal"
)

// PipelineError is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of
// error.
//
// PipelineError implements the error interface and supports error
// unwrapping, making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &PipelineError{
//		Op:   "Assembler.Seal",
//		Kind: KindValidation,
//		Err:  ErrInvalidBundle,
//	}
type PipelineError struct {
	// Op is the operation that failed (e.g., "Assembler.Seal",
	// "Redactor.Apply").
	Op string

	// Kind categorizes the error (e.g., KindValidation, KindIntegrity).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include tenant IDs, request IDs, or other debugging
	// information.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("sdk: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("sdk: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("sdk: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is implements error matching for PipelineError, allowing comparison based
// on the underlying error or the PipelineError itself.
func (e *PipelineError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*PipelineError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a new PipelineError with the provided context added.
// This is useful for adding debugging information to errors.
func (e *PipelineError) WithContext(ctx map[string]any) *PipelineError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewValidationError creates a new PipelineError with KindValidation.
func NewValidationError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindValidation, Err: err}
}

// NewIntegrityError creates a new PipelineError with KindIntegrity.
func NewIntegrityError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindIntegrity, Err: err}
}

// NewPolicyError creates a new PipelineError with KindPolicy.
func NewPolicyError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindPolicy, Err: err}
}

// NewSerializationError creates a new PipelineError with KindSerialization.
func NewSerializationError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindSerialization, Err: err}
}

// NewConfigurationError creates a new PipelineError with KindConfiguration.
func NewConfigurationError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindConfiguration, Err: err}
}

// NewIOError creates a new PipelineError with KindIO.
func NewIOError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindIO, Err: err}
}

// NewInternalError creates a new PipelineError with KindInternal.
func NewInternalError(op string, err error) *PipelineError {
	return &PipelineError{Op: op, Kind: KindInternal, Err: err}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "artifact file"). If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
