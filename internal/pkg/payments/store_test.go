package payments

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileEventStore {
	t.Helper()
	store, err := NewFileEventStore(filepath.Join(t.TempDir(), "webhooks.log.json"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return store
}

func TestFileEventStore_EmptyReadsAsEmptySlice(t *testing.T) {
	store := newTestStore(t)

	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", events)
	}
}

func TestFileEventStore_AppendPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	for i, payload := range []string{
		`{"event":"charge.success","data":{"reference":"ORD-000001"}}`,
		`{"event":"charge.failed","data":{"reference":"ORD-000002"}}`,
		`{"event":"transfer.success","data":{"reference":"ORD-000003"}}`,
	} {
		event := NewWebhookEvent([]byte(payload), "", now.Add(time.Duration(i)*time.Second))
		if err := store.Append(event); err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
	}

	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []string{"ORD-000001", "ORD-000002", "ORD-000003"} {
		if got := ExtractReference(events[i].Body); got != want {
			t.Fatalf("event %d reference = %q, want %q", i, got, want)
		}
	}
}

func TestFileEventStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.log.json")

	store, err := NewFileEventStore(path)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := store.Append(NewWebhookEvent([]byte(`{"event":"charge.success"}`), "sig", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}

	reopened, err := NewFileEventStore(path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	events, err := reopened.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll after reopen: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event after reopen, got %d", len(events))
	}
	if events[0].Signature != "sig" {
		t.Fatalf("signature not preserved, got %q", events[0].Signature)
	}
}

func TestFileEventStore_ToleratesCorruptLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.log.json")

	store, err := NewFileEventStore(path)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := store.Append(NewWebhookEvent([]byte(`{"event":"first"}`), "", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Simulate a torn write in the middle of the log.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	if _, err := f.WriteString("{\"receivedAt\":\"torn\n"); err != nil {
		t.Fatalf("writing corrupt line: %v", err)
	}
	f.Close()

	if err := store.Append(NewWebhookEvent([]byte(`{"event":"second"}`), "", time.Now())); err != nil {
		t.Fatalf("Append after corruption: %v", err)
	}

	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 records (2 valid + 1 placeholder), got %d", len(events))
	}
	if body, ok := events[1].Body.(string); !ok || body != "{\"receivedAt\":\"torn" {
		t.Fatalf("placeholder should carry the raw line, got %#v", events[1].Body)
	}
}

func TestFileEventStore_NonJSONBodyKeptAsText(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append(NewWebhookEvent([]byte("not json at all"), "", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if body, ok := events[0].Body.(string); !ok || body != "not json at all" {
		t.Fatalf("expected raw text body, got %#v", events[0].Body)
	}
}

func TestFileEventStore_MultilineJSONStaysOneRecord(t *testing.T) {
	store := newTestStore(t)

	payload := []byte("{\n  \"event\": \"charge.success\",\n  \"data\": {\"reference\": \"ORD-000009\"}\n}")
	if err := store.Append(NewWebhookEvent(payload, "", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("pretty-printed payload split into %d records, want 1", len(events))
	}
	if got := ExtractReference(events[0].Body); got != "ORD-000009" {
		t.Fatalf("reference = %q, want ORD-000009", got)
	}
}

func TestFileEventStore_OversizedRecordDoesNotPoisonReads(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append(NewWebhookEvent([]byte(`{"data":{"reference":"ORD-000001","status":"success"}}`), "", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// A non-JSON body full of quotes doubles in size once stored as an
	// escaped JSON string, so the line far exceeds any fixed read buffer.
	huge := strings.Repeat(`"`, 3*1024*1024)
	if err := store.Append(NewWebhookEvent([]byte(huge), "", time.Now())); err != nil {
		t.Fatalf("Append oversized: %v", err)
	}
	if err := store.Append(NewWebhookEvent([]byte(`{"data":{"reference":"ORD-000002","status":"success"}}`), "", time.Now())); err != nil {
		t.Fatalf("Append after oversized: %v", err)
	}

	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll with oversized record: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if got, ok := events[1].Body.(string); !ok || len(got) != len(huge) {
		t.Fatalf("oversized body not preserved, got type %T len %d", events[1].Body, len(got))
	}
	if got := ExtractReference(events[2].Body); got != "ORD-000002" {
		t.Fatalf("event after oversized record lost, reference = %q", got)
	}

	since, err := store.ReadSince(2)
	if err != nil {
		t.Fatalf("ReadSince past oversized record: %v", err)
	}
	if len(since) != 1 {
		t.Fatalf("ReadSince(2) = %d events, want 1", len(since))
	}
}

func TestFileEventStore_ConcurrentAppendsStayWholeRecords(t *testing.T) {
	store := newTestStore(t)

	const (
		writers         = 10
		eventsPerWriter = 20
	)
	var wg sync.WaitGroup
	for g := 0; g < writers; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < eventsPerWriter; i++ {
				payload := fmt.Sprintf(`{"data":{"reference":"ORD-%03d-%03d","status":"success"}}`, g, i)
				if err := store.Append(NewWebhookEvent([]byte(payload), "", time.Now())); err != nil {
					t.Errorf("Append: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != writers*eventsPerWriter {
		t.Fatalf("expected %d events, got %d", writers*eventsPerWriter, len(events))
	}
	seen := make(map[string]int, len(events))
	for i, event := range events {
		ref := ExtractReference(event.Body)
		if ref == "" {
			t.Fatalf("event %d is not a complete record: %#v", i, event.Body)
		}
		seen[ref]++
	}
	if len(seen) != writers*eventsPerWriter {
		t.Fatalf("expected %d distinct references, got %d", writers*eventsPerWriter, len(seen))
	}
}

func TestFileEventStore_ReadSince(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		payload, _ := json.Marshal(map[string]any{"seq": i})
		if err := store.Append(NewWebhookEvent(payload, "", time.Now())); err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
	}

	tests := []struct {
		offset int
		want   int
	}{
		{offset: 0, want: 5},
		{offset: 3, want: 2},
		{offset: 5, want: 0},
		{offset: 99, want: 0},
		{offset: -1, want: 5},
	}
	for _, tt := range tests {
		events, err := store.ReadSince(tt.offset)
		if err != nil {
			t.Fatalf("ReadSince(%d): %v", tt.offset, err)
		}
		if len(events) != tt.want {
			t.Fatalf("ReadSince(%d) = %d events, want %d", tt.offset, len(events), tt.want)
		}
	}
}

func TestFileEventStore_Clear(t *testing.T) {
	store := newTestStore(t)
	if err := store.Append(NewWebhookEvent([]byte(`{}`), "", time.Now())); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	events, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll after Clear: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty store after Clear, got %d events", len(events))
	}
	// Clearing an already empty store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
}
