// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints,
// including structured error envelopes, consistent JSON serialization, and
// helpers for common HTTP patterns. The goal is to guarantee uniform responses
// for both success and failure cases, making the API predictable and
// machine-friendly.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable error code
//     drawn from the internal/apperr taxonomy.
//   - FailErr() is the single boundary where Go errors become HTTP responses:
//     taxonomy errors pass through with their own status/code/details, and
//     everything else collapses to a 500 INTERNAL_ERROR.
//   - ok() simplifies writing success responses in a consistent shape.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "success": false,
//	  "error": "NOT_FOUND",
//	  "message": "Document not found",
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docflow/go-hr-backend/internal/apperr"
	"github.com/docflow/go-hr-backend/internal/http/middleware"
)

// debugErrors controls whether FailErr exposes the underlying error text of
// unexpected failures. Off by default; the router enables it from DEBUG so
// production responses never carry internal detail.
var debugErrors bool

// SetDebug toggles exposure of internal error messages in 500 responses.
// Call once during router setup, before serving traffic.
func SetDebug(on bool) { debugErrors = on }

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Fields:
//   - Success: always false; lets clients branch on one boolean.
//   - Code: a stable, machine-readable taxonomy code (see internal/apperr).
//   - Message: a human-readable description, safe for display to users.
//   - Details: optional structured context (e.g., per-field validation errors).
//   - RequestID: correlation ID echoed from X-Request-ID, used to tie
//     client-side errors to server logs.
type ErrorResponse struct {
	Success   bool            `json:"success" example:"false"`
	Code      string          `json:"error" example:"NOT_FOUND"`
	Message   string          `json:"message" example:"Document not found"`
	Details   []apperr.Detail `json:"details,omitempty"`
	RequestID string          `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// fail aborts the request with a structured error and logs server-side errors.
//
// It constructs an ErrorResponse, writes it as JSON with the given HTTP status,
// and calls gin.Context.AbortWithStatusJSON to stop further processing.
//
// Server errors (>=500) are logged using the request-scoped logger from middleware.
func fail(c *gin.Context, status int, code, msg string, details ...apperr.Detail) {
	resp := ErrorResponse{
		Success:   false,
		Code:      code,
		Message:   msg,
		Details:   details,
		RequestID: middleware.RequestIDFrom(c),
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// FailErr converts a Go error into an HTTP error response.
//
// Taxonomy errors (internal/apperr.Error) keep their own status, code,
// message, and details. Any other error is treated as an unexpected server
// fault: it is logged and collapsed to a generic 500 INTERNAL_ERROR so that
// internal detail never leaks to clients. When debug mode is on (SetDebug)
// the underlying error text is passed through instead.
func FailErr(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		fail(c, e.Status, e.Code, e.Message, e.Details...)
		return
	}
	lg := middleware.LoggerFrom(c)
	lg.Error().Err(err).Msg("unhandled error")
	msg := "internal server error"
	if debugErrors && err != nil {
		msg = err.Error()
	}
	fail(c, http.StatusInternalServerError, apperr.CodeInternal, msg)
}

// ok writes a success JSON response.
//
// It serializes `body` as JSON with the given HTTP status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Pagination describes the window a paginated response covers.
type Pagination struct {
	Page        int  `json:"page" example:"1"`
	PageSize    int  `json:"page_size" example:"100"`
	TotalItems  int  `json:"total_items" example:"42"`
	TotalPages  int  `json:"total_pages" example:"1"`
	HasNext     bool `json:"has_next" example:"false"`
	HasPrevious bool `json:"has_previous" example:"false"`
}

// PaginatedResponse is the standard envelope for list endpoints.
type PaginatedResponse struct {
	Success    bool       `json:"success" example:"true"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// paginated assembles a PaginatedResponse for the given window. totalItems is
// the full match count, not the window size; page is 1-based.
func paginated(data any, page, pageSize, totalItems int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Page:        page,
			PageSize:    pageSize,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}
