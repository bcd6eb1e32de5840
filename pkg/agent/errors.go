package agent

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// FailureKind is the closed set of failure categories a request can
// terminate with.
type FailureKind string

const (
	// KindInvalidRequest is bad caller input, no upstream call attempted.
	KindInvalidRequest FailureKind = "InvalidRequest"
	// KindCredentialUnavailable is a failed identity-provider token fetch.
	KindCredentialUnavailable FailureKind = "CredentialUnavailable"
	// KindToolNotFound is a model-requested tool absent from the registry.
	KindToolNotFound FailureKind = "ToolNotFound"
	// KindUpstreamError is a non-success response from a backing read endpoint.
	KindUpstreamError FailureKind = "UpstreamError"
	// KindGatewayError is a non-success or malformed LLM service response.
	KindGatewayError FailureKind = "GatewayError"
)

// Error is a failure of a request, carrying its kind. The kind survives
// wrapping and is recovered with KindOf.
type Error struct {
	Kind FailureKind
	err  error
}

// NewError wraps err with a failure kind.
func NewError(kind FailureKind, err error) error {
	return &Error{
		Kind: kind,
		err:  err,
	}
}

// Errorf creates a failure of the given kind.
func Errorf(kind FailureKind, format string, args ...any) error {
	return &Error{
		Kind: kind,
		err:  errors.NewWithDepthf(1, format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.err.Error())
}

// Unwrap supports errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// KindOf returns the failure kind carried by err, or an empty kind.
func KindOf(err error) FailureKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
