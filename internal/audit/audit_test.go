package audit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLogRecordAssignsIDAndTimestamp(t *testing.T) {
	l := NewMemoryLog()
	got, err := l.Record(context.Background(), Event{
		EventType: EventUserLogin,
		Action:    "User logged in",
		UserID:    "u1",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected generated ID")
	}
	if got.Timestamp.IsZero() {
		t.Fatal("expected generated timestamp")
	}
}

func TestMemoryLogRecordKeepsProvidedFields(t *testing.T) {
	l := NewMemoryLog()
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got, err := l.Record(context.Background(), Event{
		ID:        "fixed-id",
		Timestamp: ts,
		EventType: EventSystemStartup,
		Action:    "Service started",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID != "fixed-id" {
		t.Fatalf("ID = %q, want fixed-id", got.ID)
	}
	if !got.Timestamp.Equal(ts) {
		t.Fatalf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestMemoryLogQueryOrdering(t *testing.T) {
	l := NewMemoryLog()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := l.Record(context.Background(), Event{
			EventType: EventDocumentViewed,
			Action:    "viewed",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := l.Query(context.Background(), Filter{}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("events not ordered most recent first at index %d", i)
		}
	}
}

func TestMemoryLogQueryLimit(t *testing.T) {
	l := NewMemoryLog()
	for i := 0; i < 7; i++ {
		if _, err := l.Record(context.Background(), Event{EventType: EventUserLogin, Action: "login"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := l.Query(context.Background(), Filter{}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestMemoryLogQueryFilters(t *testing.T) {
	l := NewMemoryLog()
	seed := []Event{
		{EventType: EventUserLogin, Action: "login", UserID: "alice"},
		{EventType: EventUserLogin, Action: "login", UserID: "bob"},
		{EventType: EventDocumentCreated, Action: "created", UserID: "alice", ResourceType: "document", ResourceID: "d1"},
		{EventType: EventDocumentDeleted, Action: "deleted", UserID: "alice", ResourceType: "document", ResourceID: "d2"},
	}
	for _, e := range seed {
		if _, err := l.Record(context.Background(), e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"by user", Filter{UserID: "alice"}, 3},
		{"by event type", Filter{EventType: EventUserLogin}, 2},
		{"by resource", Filter{ResourceType: "document", ResourceID: "d1"}, 1},
		{"combined", Filter{UserID: "alice", EventType: EventDocumentDeleted}, 1},
		{"no match", Filter{UserID: "carol"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Query(context.Background(), tt.filter, 10)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMemoryLogConcurrentRecord(t *testing.T) {
	l := NewMemoryLog()
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 20; j++ {
				_, _ = l.Record(context.Background(), Event{EventType: EventUserLogin, Action: "login"})
			}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
	got, err := l.Query(context.Background(), Filter{}, 1000)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 320 {
		t.Fatalf("len = %d, want 320", len(got))
	}
}

func TestMemoryLogPage(t *testing.T) {
	l := NewMemoryLog()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := l.Record(context.Background(), Event{
			EventType: EventUserLogin,
			Action:    "User logged in",
			UserID:    "u1",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, total, err := l.Page(context.Background(), Filter{}, 1, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(got) != 2 || !got[0].Timestamp.Equal(base.Add(4*time.Second)) {
		t.Fatalf("unexpected first window: %v", got)
	}

	got, total, err = l.Page(context.Background(), Filter{}, 3, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if total != 5 || len(got) != 1 || !got[0].Timestamp.Equal(base) {
		t.Fatalf("unexpected last window: total=%d events=%v", total, got)
	}

	// Past the end: empty window, total preserved.
	got, total, err = l.Page(context.Background(), Filter{}, 9, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if total != 5 || len(got) != 0 {
		t.Fatalf("expected empty window with total 5, got total=%d events=%v", total, got)
	}

	// Out-of-range page and size are coerced.
	got, total, err = l.Page(context.Background(), Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if total != 5 || len(got) != 5 {
		t.Fatalf("expected coerced full window, got total=%d len=%d", total, len(got))
	}
}

func TestMemoryLogPageFiltered(t *testing.T) {
	l := NewMemoryLog()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := l.Record(context.Background(), Event{
			EventType: EventUserLogin, Action: "login", UserID: "alice",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := l.Record(context.Background(), Event{
		EventType: EventUserLogin, Action: "login", UserID: "bob", Timestamp: base,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, total, err := l.Page(context.Background(), Filter{UserID: "alice"}, 2, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if total != 3 || len(got) != 1 || got[0].UserID != "alice" {
		t.Fatalf("unexpected filtered page: total=%d events=%v", total, got)
	}
}
