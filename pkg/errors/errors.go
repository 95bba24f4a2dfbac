// Package errors provides custom error types for sponsormap.
// Typed errors let the pipeline decide which failures are recovered locally
// (a provider fetch, a single malformed record) and which abort a document
// update (a missing marker region).
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join returns an error that wraps the given errors, ignoring nils.
var Join = errors.Join

// As is the standard library errors.As.
var As = errors.As

// Sentinel errors.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that a token is required but not provided.
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrProviderUnavailable indicates that a provider is temporarily unavailable.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrMarkerNotFound indicates that a document lacks its begin/end marker pair.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrDocumentChanged indicates that a document was modified between read and write.
	ErrDocumentChanged = errors.New("document changed during update")
)

// NotFoundError represents an error when a resource is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error returned by a provider API, either as an
// HTTP status or as a GraphQL "errors" payload.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode == http.StatusUnauthorized:
		return target == ErrAPIKeyRequired
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrProviderUnavailable
	}
	return false
}

// NewAPIError creates a new APIError.
func NewAPIError(provider string, statusCode int, message string) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// FetchError reports that a single provider could not be fetched or
// parsed. The pipeline treats it as "zero records from that provider".
type FetchError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for provider %s: %v", e.Provider, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Err: err}
}

// ParseError represents an error when parsing data formats, including a
// provider response whose top-level shape is not recognized.
type ParseError struct {
	Format  string // "json", "yaml", "graphql"
	File    string
	Path    string // dotted path inside the document, when known
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Path != "":
		return fmt.Sprintf("parse error in %s %s at %s: %s", e.Format, e.File, e.Path, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.File, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s parse error at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations.
type IOError struct {
	Operation string // "read", "write", "stat", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// MarkerError reports a marker region that could not be located.
type MarkerError struct {
	Document string // path or label of the document, may be empty
	Marker   string // the marker that was missing
	Begin    bool   // true when the begin marker itself is missing
}

// Error implements the error interface.
func (e *MarkerError) Error() string {
	what := "end marker"
	if e.Begin {
		what = "begin marker"
	}
	if e.Document != "" {
		return fmt.Sprintf("%s %q not found in %s", what, e.Marker, e.Document)
	}
	return fmt.Sprintf("%s %q not found", what, e.Marker)
}

// Is implements errors.Is support.
func (e *MarkerError) Is(target error) bool {
	return target == ErrMarkerNotFound
}

// PatchError wraps any failure to update one target document.
type PatchError struct {
	Document string
	Err      error
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s: %v", e.Document, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// ResourceError represents an error during resource operations.
type ResourceError struct {
	Operation string // "create", "load", "render"
	Resource  string // "config", "roster", "renderer"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError.
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsProviderUnavailable checks if an error indicates provider unavailability.
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsMarkerNotFound checks if an error reports a missing marker region.
func IsMarkerNotFound(err error) bool {
	return errors.Is(err, ErrMarkerNotFound)
}

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError.
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
