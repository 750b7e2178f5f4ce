package scrappey

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingApiKey = errors.New("apiKey parameter is required.")

// validation error kinds, match them with errors.Is
var (
	ErrUnknownEndpoint       = errors.New("unknown endpoint")
	ErrInvalidProxyType      = errors.New("invalid proxy type")
	ErrInvalidProxyScheme    = errors.New("invalid proxy scheme")
	ErrUnknownProxyCountry   = errors.New("unknown proxy country")
	ErrMissingURL            = errors.New("missing url")
	ErrInvalidAutoparseType  = errors.New("invalid autoparse type")
	ErrMissingProperties     = errors.New("missing properties")
	ErrInvalidPropertiesType = errors.New("invalid properties type")
	ErrInvalidHeadersType    = errors.New("invalid customHeaders type")
	ErrInvalidSessionType    = errors.New("invalid session type")
	ErrMissingSession        = errors.New("missing session")
	ErrMissingPostData       = errors.New("missing postData")
	ErrInvalidPostDataType   = errors.New("invalid postData type")
	ErrInvalidPostData       = errors.New("invalid postData")

	ErrNotASequence     = errors.New("cookies not a sequence")
	ErrEmptySequence    = errors.New("cookies empty")
	ErrElementNotObject = errors.New("cookie not an object")
	ErrMissingName      = errors.New("cookie missing name")
	ErrMissingValue     = errors.New("cookie missing value")
	ErrMissingDomain    = errors.New("cookie missing domain")
	ErrMissingPath      = errors.New("cookie missing path")
)

// ValidationError is returned when options are rejected before anything is
// sent over the network.
type ValidationError struct {
	Kind    error
	Field   string
	Message string
	// Allowed lists the acceptable values for Field, if there is a closed set.
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Allowed, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, field, message string, allowed ...string) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   field,
		Message: message,
		Allowed: allowed,
	}
}

// RemoteError is returned when scrappey.com answers with a non-2xx status.
// The body is kept as-is.
type RemoteError struct {
	Endpoint   Endpoint
	StatusCode int
	Body       []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf(
		"%s: remote responded with status %d: %s",
		e.Endpoint, e.StatusCode, string(e.Body),
	)
}
