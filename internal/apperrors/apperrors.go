package apperrors

import (
	"errors"
	"net/http"
)

// Error kinds surfaced by the service layers. Handlers map them centrally to
// HTTP status codes via Status instead of attaching codes to ad-hoc errors.
var (
	// ErrValidation marks a request missing a required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown document id or shareable link.
	ErrNotFound = errors.New("not found")
	// ErrGenerationFailed marks a completion-service call that errored or
	// returned no usable content.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrMalformedGeneration marks completion output that could not be parsed
	// into the expected structured form.
	ErrMalformedGeneration = errors.New("malformed generation output")
	// ErrCorruptContent marks a stored body that no longer decodes into the
	// expected shape.
	ErrCorruptContent = errors.New("corrupt stored content")
)

// Status maps an error to the transport status code for the JSON error body.
// Unrecognized errors map to 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
