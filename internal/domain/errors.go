package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound indicates a file could not be retrieved through any strategy
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRepo indicates malformed repository coordinates
	ErrInvalidRepo = errors.New("invalid repository")

	// ErrInvalidPDF indicates the fetched bytes could not be opened as a PDF
	ErrInvalidPDF = errors.New("invalid PDF")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")
)

// TransportError represents a network-level failure (timeout, DNS, reset)
// during one of the fetch requests. It is never retried.
type TransportError struct {
	Strategy string
	URL      string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%s) for %s: %v", e.Strategy, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError
func NewTransportError(strategy, url string, err error) *TransportError {
	return &TransportError{
		Strategy: strategy,
		URL:      url,
		Err:      err,
	}
}

// ProtocolError represents a successful (200) content API response whose
// body does not have the expected shape.
type ProtocolError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error for %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error for %s: %s", e.URL, e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// NewProtocolError creates a new ProtocolError
func NewProtocolError(url, reason string, err error) *ProtocolError {
	return &ProtocolError{
		URL:    url,
		Reason: reason,
		Err:    err,
	}
}

// NotFoundError is returned when both the content API and the raw URL
// completed without a 200. Both attempts are recorded for diagnosis.
type NotFoundError struct {
	APIURL    string
	APIStatus int
	RawURL    string
	RawStatus int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: API URL %s -> %d; raw URL %s -> %d",
		e.APIURL, e.APIStatus, e.RawURL, e.RawStatus)
}

// Is makes errors.Is(err, ErrNotFound) hold for NotFoundError values
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsProtocol reports whether err is (or wraps) a ProtocolError
func IsProtocol(err error) bool {
	var protocolErr *ProtocolError
	return errors.As(err, &protocolErr)
}

// IsNotFound reports whether err means the file was not found by any strategy
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
