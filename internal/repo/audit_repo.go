// Package repo implements the data persistence layer for locally stored
// entities, backed by GORM. This file provides append and query access to
// the audit_events table.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/docflow/go-hr-backend/internal/domain"
)

// AuditFilter narrows an audit query. Zero-valued fields are ignored.
type AuditFilter struct {
	UserID       string
	ResourceType string
	ResourceID   string
	EventType    string
}

// InsertAuditEvent appends one audit event. Events are never updated.
func InsertAuditEvent(ctx context.Context, db *gorm.DB, ev *domain.AuditEvent) error {
	return db.WithContext(ctx).Create(ev).Error
}

// auditWhere applies the set fields of f to q.
func auditWhere(q *gorm.DB, f AuditFilter) *gorm.DB {
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ResourceType != "" {
		q = q.Where("resource_type = ?", f.ResourceType)
	}
	if f.ResourceID != "" {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	return q
}

// ListAuditEvents returns events matching f, most recent first, bounded by
// limit and starting at offset. A limit <= 0 is coerced to 100; a negative
// offset to 0.
func ListAuditEvents(ctx context.Context, db *gorm.DB, f AuditFilter, limit, offset int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	q := auditWhere(db.WithContext(ctx).Model(&domain.AuditEvent{}), f)
	var out []domain.AuditEvent
	err := q.Order("timestamp DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// CountAuditEvents returns the number of events matching f.
func CountAuditEvents(ctx context.Context, db *gorm.DB, f AuditFilter) (int64, error) {
	var n int64
	q := auditWhere(db.WithContext(ctx).Model(&domain.AuditEvent{}), f)
	err := q.Count(&n).Error
	return n, err
}
