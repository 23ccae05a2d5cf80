// Package apperr defines the application error taxonomy shared by every
// layer of the service. Each error kind carries exactly one HTTP status and
// one stable, machine-readable code, so a taxonomy error constructed deep in
// the remote client or auth resolver can be rendered at the HTTP boundary
// without interpretation.
//
// Kinds and their fixed mappings:
//
//	NotFound        → 404 NOT_FOUND
//	Validation      → 422 VALIDATION_ERROR
//	Authentication  → 401 AUTHENTICATION_ERROR
//	Authorization   → 403 AUTHORIZATION_ERROR
//	Conflict        → 409 CONFLICT
//	Database        → 500 DATABASE_ERROR
//	ExternalService → 502 EXTERNAL_SERVICE_ERROR
//
// Conventions:
//   - One constructor per kind; errors are immutable after construction.
//   - Errors are propagated unmodified to the boundary, converted into the
//     response envelope there, and discarded.
//   - Anything that is not a taxonomy error is rewritten at the boundary as
//     a generic INTERNAL_ERROR (500); see handlers.FailErr.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one of the closed set of application error kinds.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation"
	KindAuthentication  Kind = "authentication"
	KindAuthorization   Kind = "authorization"
	KindConflict        Kind = "conflict"
	KindDatabase        Kind = "database"
	KindExternalService Kind = "external_service"
)

// Stable machine-readable codes surfaced in the error envelope.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuthentication  = "AUTHENTICATION_ERROR"
	CodeAuthorization   = "AUTHORIZATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeDatabase        = "DATABASE_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"

	// CodeInternal is reserved for the boundary: non-taxonomy errors are
	// rewritten with this code and a 500 status.
	CodeInternal = "INTERNAL_ERROR"
)

// Detail is one structured field/message/code triple attached to an error.
// Details are ordered and suitable for direct surfacing to API callers.
type Detail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error is the single taxonomy error type. It is immutable once constructed;
// callers must not mutate Details after handing the error off.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details []Detail
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound reports a missing resource (404).
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// NotFoundResource reports a missing resource with the resource identity
// attached as a structured detail.
func NotFoundResource(message, resourceType, resourceID string) *Error {
	e := NotFound(message)
	if resourceType != "" || resourceID != "" {
		e.Details = []Detail{{Field: resourceType, Message: "resource not found", Code: resourceID}}
	}
	return e
}

// Validation reports an invalid input (422). Details, when present, identify
// the offending fields in order.
func Validation(message string, details ...Detail) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Code: CodeValidation, Message: message, Details: details}
}

// Authentication reports a failed identity check (401).
func Authentication(message string) *Error {
	if message == "" {
		message = "Authentication failed"
	}
	return &Error{Kind: KindAuthentication, Status: http.StatusUnauthorized, Code: CodeAuthentication, Message: message}
}

// Authorization reports an insufficient-permission failure (403).
func Authorization(message string) *Error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return &Error{Kind: KindAuthorization, Status: http.StatusForbidden, Code: CodeAuthorization, Message: message}
}

// Conflict reports a resource conflict (409).
func Conflict(message string, details ...Detail) *Error {
	if message == "" {
		message = "Resource conflict"
	}
	return &Error{Kind: KindConflict, Status: http.StatusConflict, Code: CodeConflict, Message: message, Details: details}
}

// Database reports a data-platform failure that is not attributable to the
// caller (500).
func Database(message string, details ...Detail) *Error {
	if message == "" {
		message = "Database error occurred"
	}
	return &Error{Kind: KindDatabase, Status: http.StatusInternalServerError, Code: CodeDatabase, Message: message, Details: details}
}

// ExternalService reports an upstream dependency failure (502). The service
// name, when known, is attached as a detail.
func ExternalService(message, serviceName string) *Error {
	if message == "" {
		message = "External service error"
	}
	e := &Error{Kind: KindExternalService, Status: http.StatusBadGateway, Code: CodeExternalService, Message: message}
	if serviceName != "" {
		e.Details = []Detail{{Field: "service", Message: serviceName}}
	}
	return e
}

// As extracts the taxonomy error from err, unwrapping as needed.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, k Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == k
	}
	return false
}
