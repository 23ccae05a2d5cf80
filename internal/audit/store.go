package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/docflow/go-hr-backend/internal/domain"
	"github.com/docflow/go-hr-backend/internal/repo"
)

// GormLog persists audit events to the local SQLite database.
type GormLog struct {
	db *gorm.DB
}

// NewGormLog wraps db as a durable Log backend.
func NewGormLog(db *gorm.DB) *GormLog { return &GormLog{db: db} }

// Record stamps and persists e.
func (l *GormLog) Record(ctx context.Context, e Event) (Event, error) {
	e = stamp(e)
	rec, err := toModel(e)
	if err != nil {
		return Event{}, err
	}
	if err := repo.InsertAuditEvent(ctx, l.db, rec); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Query returns persisted events matching f, most recent first.
func (l *GormLog) Query(ctx context.Context, f Filter, limit int) ([]Event, error) {
	rows, err := repo.ListAuditEvents(ctx, l.db, toRepoFilter(f), limit, 0)
	if err != nil {
		return nil, err
	}
	return fromModels(rows), nil
}

// Page returns the page-th window of persisted events matching f, most
// recent first, together with the total match count.
func (l *GormLog) Page(ctx context.Context, f Filter, page, pageSize int) ([]Event, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	rf := toRepoFilter(f)
	total, err := repo.CountAuditEvents(ctx, l.db, rf)
	if err != nil {
		return nil, 0, err
	}
	rows, err := repo.ListAuditEvents(ctx, l.db, rf, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return fromModels(rows), int(total), nil
}

func toRepoFilter(f Filter) repo.AuditFilter {
	return repo.AuditFilter{
		UserID:       f.UserID,
		ResourceType: f.ResourceType,
		ResourceID:   f.ResourceID,
		EventType:    f.EventType,
	}
}

func fromModels(rows []domain.AuditEvent) []Event {
	out := make([]Event, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out
}

func toModel(e Event) (*domain.AuditEvent, error) {
	details := ""
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return nil, err
		}
		details = string(b)
	}
	return &domain.AuditEvent{
		ID:           e.ID,
		EventType:    e.EventType,
		Timestamp:    e.Timestamp,
		UserID:       e.UserID,
		UserEmail:    e.UserEmail,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Action:       e.Action,
		Details:      details,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		RequestID:    e.RequestID,
	}, nil
}

func fromModel(m *domain.AuditEvent) Event {
	var details map[string]any
	if m.Details != "" {
		// Rows written by older builds may hold malformed JSON; surface
		// the raw text rather than dropping the event.
		if err := json.Unmarshal([]byte(m.Details), &details); err != nil {
			details = map[string]any{"raw": m.Details}
		}
	}
	return Event{
		ID:           m.ID,
		EventType:    m.EventType,
		Timestamp:    m.Timestamp,
		UserID:       m.UserID,
		UserEmail:    m.UserEmail,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		Action:       m.Action,
		Details:      details,
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		RequestID:    m.RequestID,
	}
}
