package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of a platform API call
type Kind string

const (
	KindAuthRequired     Kind = "auth_required"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindRateLimited      Kind = "rate_limited"
	KindServerError      Kind = "server_error"
	KindValidationFailed Kind = "validation_failed"
	KindUnknown          Kind = "unknown"
)

var (
	// ErrAuthRequired indicates there is no usable session (missing, expired, or refresh failed)
	ErrAuthRequired = errors.New("authentication required")

	// ErrForbidden indicates the coach doesn't have permission
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the API rejected the call with 429
	ErrRateLimited = errors.New("rate limited")

	// ErrServerError indicates a 5xx response
	ErrServerError = errors.New("server error")

	// ErrValidationFailed indicates a payload failed client-side validation
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknown covers network failures, undecodable bodies and unmapped statuses
	ErrUnknown = errors.New("unknown error")
)

var kindSentinels = map[Kind]error{
	KindAuthRequired:     ErrAuthRequired,
	KindForbidden:        ErrForbidden,
	KindNotFound:         ErrNotFound,
	KindRateLimited:      ErrRateLimited,
	KindServerError:      ErrServerError,
	KindValidationFailed: ErrValidationFailed,
	KindUnknown:          ErrUnknown,
}

// APIError is a classified failure with the user-facing message.
// Status is zero when the failure never produced an HTTP response.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause
func (e *APIError) Unwrap() []error {
	errs := []error{kindSentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindFromStatus maps a non-2xx HTTP status to an error kind
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthRequired
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// FromStatus builds an APIError for an HTTP status. An empty detail falls back to a generic message.
func FromStatus(status int, detail string) *APIError {
	kind := KindFromStatus(status)
	if detail == "" {
		detail = genericMessage(kind, status)
	}
	return &APIError{Kind: kind, Status: status, Message: detail}
}

// AuthRequiredError creates an auth failure with context
func AuthRequiredError(reason string) error {
	return &APIError{Kind: KindAuthRequired, Message: reason}
}

// ValidationError creates a client-side validation failure
func ValidationError(msg string, cause error) error {
	return &APIError{Kind: KindValidationFailed, Message: msg, Err: cause}
}

// UnknownError wraps a transport or decode failure
func UnknownError(msg string, cause error) error {
	return &APIError{Kind: KindUnknown, Message: fmt.Sprintf("%s: %v", msg, cause), Err: cause}
}

// KindOf returns the kind of err, KindUnknown for unclassified errors and "" for nil
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the user-facing message of err
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

func genericMessage(kind Kind, status int) string {
	switch kind {
	case KindAuthRequired:
		return "Session expired, please log in again"
	case KindForbidden:
		return "You don't have access to this resource"
	case KindNotFound:
		return "Resource not found"
	case KindRateLimited:
		return "Too many requests, please try again later"
	case KindServerError:
		return "Server error, please try again later"
	default:
		return fmt.Sprintf("Request failed with status %d", status)
	}
}
