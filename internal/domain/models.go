// Package domain defines the persistence models of the service. The only
// entity this skeleton persists locally is the audit event; employee and
// document records live behind the remote data platform.
package domain

import "time"

// AuditEvent is one append-only audit record. Rows are written once and
// never updated; queries order by timestamp, most recent first.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - EventType: dotted event vocabulary (e.g. "document.created"); indexed.
//   - Timestamp: event time; indexed for most-recent-first queries.
//   - UserID / UserEmail: actor identity, when known.
//   - ResourceType / ResourceID: affected resource, when applicable.
//   - Action: human-readable action description.
//   - Details: optional JSON-encoded context payload.
//   - IPAddress / UserAgent / RequestID: request-level correlation data.
type AuditEvent struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	EventType    string    `json:"event_type"    gorm:"type:varchar(64);not null;index:idx_audit_type"`
	Timestamp    time.Time `json:"timestamp"     gorm:"not null;index:idx_audit_ts"`
	UserID       string    `json:"user_id,omitempty"       gorm:"type:varchar(64);index:idx_audit_user"`
	UserEmail    string    `json:"user_email,omitempty"    gorm:"type:varchar(255)"`
	ResourceType string    `json:"resource_type,omitempty" gorm:"type:varchar(64);index:idx_audit_resource,priority:1"`
	ResourceID   string    `json:"resource_id,omitempty"   gorm:"type:varchar(64);index:idx_audit_resource,priority:2"`
	Action       string    `json:"action"        gorm:"type:varchar(255);not null"`
	Details      string    `json:"details,omitempty" gorm:"type:text"`
	IPAddress    string    `json:"ip_address,omitempty" gorm:"type:varchar(64)"`
	UserAgent    string    `json:"user_agent,omitempty" gorm:"type:varchar(255)"`
	RequestID    string    `json:"request_id,omitempty" gorm:"type:char(36)"`
}

// TableName returns the database table name for AuditEvent.
func (AuditEvent) TableName() string { return "audit_events" }
