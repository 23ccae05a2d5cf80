// Package audit provides the append-only audit log. The contract is a small
// interface so the backing store can change without touching callers: the
// in-memory backend mirrors the original deployment, and a SQLite-backed
// implementation (store.go) satisfies the same contract for durable setups.
//
// Recording is best-effort from the caller's perspective: the console
// emission never blocks or fails the surrounding request, and callers are
// expected to log — not propagate — a Record error on request paths.
package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Event types, grouped by subject. The dotted vocabulary is shared with the
// remote platform's event store.
const (
	// Authentication events
	EventUserLogin       = "user.login"
	EventUserLogout      = "user.logout"
	EventUserLoginFailed = "user.login_failed"
	EventPasswordChanged = "user.password_changed"
	EventTokenRefreshed  = "user.token_refreshed"

	// Document events
	EventDocumentCreated    = "document.created"
	EventDocumentUpdated    = "document.updated"
	EventDocumentDeleted    = "document.deleted"
	EventDocumentViewed     = "document.viewed"
	EventDocumentDownloaded = "document.downloaded"
	EventDocumentShared     = "document.shared"

	// Employee events
	EventEmployeeCreated     = "employee.created"
	EventEmployeeUpdated     = "employee.updated"
	EventEmployeeDeactivated = "employee.deactivated"

	// Category events
	EventCategoryCreated = "category.created"
	EventCategoryUpdated = "category.updated"
	EventCategoryDeleted = "category.deleted"

	// System events
	EventSystemError    = "system.error"
	EventSystemStartup  = "system.startup"
	EventSystemShutdown = "system.shutdown"
)

// Event is one audit record. ID and Timestamp are assigned by Record when
// left empty.
type Event struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	Timestamp    time.Time      `json:"timestamp"`
	UserID       string         `json:"user_id,omitempty"`
	UserEmail    string         `json:"user_email,omitempty"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Action       string         `json:"action"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
}

// Filter narrows a Query. Zero-valued fields are ignored.
type Filter struct {
	UserID       string
	ResourceType string
	ResourceID   string
	EventType    string
}

// Log is the append-only audit contract. Query returns matching events,
// most recent first, bounded by limit. Page returns the page-th window
// (1-based) in the same order, together with the total match count.
type Log interface {
	Record(ctx context.Context, e Event) (Event, error)
	Query(ctx context.Context, f Filter, limit int) ([]Event, error)
	Page(ctx context.Context, f Filter, page, pageSize int) ([]Event, int, error)
}

// stamp fills generated fields and emits the best-effort console line.
func stamp(e Event) Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	log.Info().
		Str("event_type", e.EventType).
		Str("action", e.Action).
		Str("user_id", e.UserID).
		Str("request_id", e.RequestID).
		Msg("audit")
	return e
}

// matches reports whether e satisfies every set field of f.
func matches(e Event, f Filter) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.ResourceType != "" && e.ResourceType != f.ResourceType {
		return false
	}
	if f.ResourceID != "" && e.ResourceID != f.ResourceID {
		return false
	}
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	return true
}

// MemoryLog is the in-memory Log backend. Safe for concurrent use.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryLog returns an empty in-memory audit log.
func NewMemoryLog() *MemoryLog { return &MemoryLog{} }

// Record appends e, assigning id and timestamp when absent.
func (l *MemoryLog) Record(_ context.Context, e Event) (Event, error) {
	e = stamp(e)
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
	return e, nil
}

// Query returns events matching f, most recent first, bounded by limit.
func (l *MemoryLog) Query(_ context.Context, f Filter, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	l.mu.RLock()
	out := make([]Event, 0, len(l.events))
	for _, e := range l.events {
		if matches(e, f) {
			out = append(out, e)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Page returns the page-th window of events matching f, most recent first,
// and the total number of matches. page and pageSize below 1 are coerced.
func (l *MemoryLog) Page(_ context.Context, f Filter, page, pageSize int) ([]Event, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	l.mu.RLock()
	all := make([]Event, 0, len(l.events))
	for _, e := range l.events {
		if matches(e, f) {
			all = append(all, e)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	total := len(all)
	lo := (page - 1) * pageSize
	if lo >= total {
		return []Event{}, total, nil
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return all[lo:hi], total, nil
}
