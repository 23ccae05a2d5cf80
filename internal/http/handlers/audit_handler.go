// Audit HTTP handlers.
//
// This file exposes read access to the audit log:
//   - GET /api/v1/audit/events   (admin-gated, filtered, most recent first)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docflow/go-hr-backend/internal/audit"
	"github.com/docflow/go-hr-backend/internal/sysutil"
	"github.com/docflow/go-hr-backend/internal/utils"
)

const (
	// defaultAuditPageSize is used when the client does not ask for a size.
	defaultAuditPageSize = 100
	// maxAuditPageSize bounds a single audit query window.
	maxAuditPageSize = 500
)

// AuditHandlers groups the audit-log endpoints.
type AuditHandlers struct {
	log audit.Log
}

// NewAuditHandlers constructs AuditHandlers bound to the audit log.
func NewAuditHandlers(log audit.Log) *AuditHandlers {
	return &AuditHandlers{log: log}
}

// ListEvents handles GET /audit/events.
//
// Query parameters:
//   - user_id, resource_type, resource_id, event_type: optional filters
//   - page: 1-based page number (default 1)
//   - page_size: window size (default 100, capped at 500); "limit" is
//     accepted as a legacy alias
//
// The response is a PaginatedResponse whose data field holds the event window.
func (h *AuditHandlers) ListEvents(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	size := utils.AtoiDefault(sysutil.FirstNonEmpty(c.Query("page_size"), c.Query("limit")), defaultAuditPageSize)
	size = utils.ClampInt(size, 1, maxAuditPageSize)

	events, total, err := h.log.Page(c.Request.Context(), audit.Filter{
		UserID:       c.Query("user_id"),
		ResourceType: c.Query("resource_type"),
		ResourceID:   c.Query("resource_id"),
		EventType:    c.Query("event_type"),
	}, page, size)
	if err != nil {
		FailErr(c, err)
		return
	}

	ok(c, http.StatusOK, paginated(events, page, size, total))
}
