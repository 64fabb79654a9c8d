package comms

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the category of a failed call. The set is closed: every error
// returned by an operation is an *Error carrying exactly one of these kinds.
type ErrorKind string

// Remote kinds, decoded from the service's error responses.
const (
	KindAccessDenied          ErrorKind = "AccessDenied"
	KindBadRequest            ErrorKind = "BadRequest"
	KindConflict              ErrorKind = "Conflict"
	KindForbidden             ErrorKind = "Forbidden"
	KindNotFound              ErrorKind = "NotFound"
	KindResourceLimitExceeded ErrorKind = "ResourceLimitExceeded"
	KindServiceFailure        ErrorKind = "ServiceFailure"
	KindServiceUnavailable    ErrorKind = "ServiceUnavailable"
	KindThrottledClient       ErrorKind = "ThrottledClient"
	KindUnauthorizedClient    ErrorKind = "UnauthorizedClient"
	KindUnprocessableEntity   ErrorKind = "UnprocessableEntity"
	// KindGeneric is used for error responses no decoder recognised.
	KindGeneric ErrorKind = "Generic"
)

// KindClient covers local failures: invalid requests, credential lookup,
// signing, transport errors with no response, and undecodable success bodies.
const KindClient ErrorKind = "Client"

// RemoteKinds lists the kinds that have a dedicated wire discriminator.
func RemoteKinds() []ErrorKind {
	return []ErrorKind{
		KindAccessDenied,
		KindBadRequest,
		KindConflict,
		KindForbidden,
		KindNotFound,
		KindResourceLimitExceeded,
		KindServiceFailure,
		KindServiceUnavailable,
		KindThrottledClient,
		KindUnauthorizedClient,
		KindUnprocessableEntity,
	}
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	return string(k)
}

// Local causes wrapped by KindClient errors.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrCredentials    = errors.New("resolving credentials")
	ErrSigning        = errors.New("signing request")
	ErrTransport      = errors.New("transport failure")
	ErrDecodeResponse = errors.New("decoding response")
)

// Error is returned by every operation on failure.
type Error struct {
	// Kind is always set.
	Kind ErrorKind `json:"kind"                 yaml:"kind"`
	// Operation is the name of the failed operation, e.g. "GetAccount".
	Operation string `json:"operation,omitempty"  yaml:"operation,omitempty"`
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	// Type is the wire discriminator, e.g. "NotFoundException".
	Type string `json:"type,omitempty"       yaml:"type,omitempty"`
	// Code is the machine-readable code reported by the service.
	Code string `json:"code,omitempty"       yaml:"code,omitempty"`
	// Message is the human-readable message reported by the service.
	Message string `json:"message,omitempty"    yaml:"message,omitempty"`
	// RequestID is the service-assigned request id, when present.
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	// Err is the local cause of a KindClient error.
	Err error `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	if e.Operation != "" {
		sb.WriteString(e.Operation)
		sb.WriteString(": ")
	}

	sb.WriteString(string(e.Kind))

	if e.Code != "" && e.Code != string(e.Kind) {
		fmt.Fprintf(&sb, " (code: %s)", e.Code)
	}

	switch {
	case e.Message != "":
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	case e.Err != nil:
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (status: %d", e.StatusCode)

		if e.RequestID != "" {
			fmt.Fprintf(&sb, ", request id: %s", e.RequestID)
		}

		sb.WriteString(")")
	}

	return sb.String()
}

// Unwrap returns the local cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target with a
// Code also requires the codes to match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Code == "" || t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrAccessDenied          = &Error{Kind: KindAccessDenied}
	ErrBadRequest            = &Error{Kind: KindBadRequest}
	ErrConflict              = &Error{Kind: KindConflict}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrResourceLimitExceeded = &Error{Kind: KindResourceLimitExceeded}
	ErrServiceFailure        = &Error{Kind: KindServiceFailure}
	ErrServiceUnavailable    = &Error{Kind: KindServiceUnavailable}
	ErrThrottledClient       = &Error{Kind: KindThrottledClient}
	ErrUnauthorizedClient    = &Error{Kind: KindUnauthorizedClient}
	ErrUnprocessableEntity   = &Error{Kind: KindUnprocessableEntity}
	ErrGeneric               = &Error{Kind: KindGeneric}
	ErrClient                = &Error{Kind: KindClient}
)

// NewClientError builds a KindClient error for operation wrapping cause.
func NewClientError(operation string, cause error) *Error {
	return &Error{
		Kind:      KindClient,
		Operation: operation,
		Err:       cause,
	}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	commsErr := &Error{}
	if errors.As(err, &commsErr) {
		return commsErr.Kind
	}

	return ""
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsThrottled checks if the service throttled the call.
func IsThrottled(err error) bool {
	return KindOf(err) == KindThrottledClient
}

// IsClientError checks if the error happened locally, before or instead of a response.
func IsClientError(err error) bool {
	return KindOf(err) == KindClient
}

// IsRetryable reports whether repeating the call may succeed. The library
// itself never retries at this layer.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindThrottledClient, KindServiceUnavailable, KindServiceFailure:
		return true
	case KindClient:
		return errors.Is(err, ErrTransport)
	default:
		return false
	}
}
