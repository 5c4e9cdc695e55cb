package payments

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// IndexEntry is one observation of a reference in the webhook stream. Event
// holds the parsed payload the delivery carried.
type IndexEntry struct {
	ReceivedAt time.Time `json:"receivedAt"`
	Event      any       `json:"event"`
}

// ReferenceIndex maps a business order reference to the webhook events seen
// for it. It is a derived projection over the event store: losing it is
// recoverable, so maintaining it is best-effort relative to event append.
type ReferenceIndex interface {
	// Record indexes the event under its extracted reference. Events with
	// no extractable reference are skipped silently; that is not an error.
	Record(event WebhookEvent) error
	Snapshot() (map[string][]IndexEntry, error)
	// Rebuild re-derives the whole index from an event sequence. The result
	// must equal what incremental Record calls over the same events produce.
	Rebuild(events []WebhookEvent) error
	Clear() error
}

// FileReferenceIndex persists the index as a single pretty-printed JSON
// document, rewritten whole on every update. Two concurrent updates race and
// the later write wins; acceptable because the store, not the index, is the
// source of truth.
type FileReferenceIndex struct {
	path string
	mu   sync.Mutex
}

// NewFileReferenceIndex creates the index and its parent directory if absent.
func NewFileReferenceIndex(path string) (*FileReferenceIndex, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileReferenceIndex{path: path}, nil
}

// Record appends {receivedAt, event} to the reference's list and persists
// the updated document.
func (ix *FileReferenceIndex) Record(event WebhookEvent) error {
	ref := ExtractReference(event.Body)
	if ref == "" {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	payments, err := ix.load()
	if err != nil {
		return err
	}
	payments[ref] = append(payments[ref], IndexEntry{
		ReceivedAt: event.ReceivedAt,
		Event:      event.Body,
	})
	return ix.save(payments)
}

// Snapshot returns the full index document. A missing file yields an empty
// map, never an error.
func (ix *FileReferenceIndex) Snapshot() (map[string][]IndexEntry, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	return ix.load()
}

// Rebuild replaces the persisted document with one re-derived from events.
func (ix *FileReferenceIndex) Rebuild(events []WebhookEvent) error {
	payments := map[string][]IndexEntry{}
	for _, event := range events {
		ref := ExtractReference(event.Body)
		if ref == "" {
			continue
		}
		payments[ref] = append(payments[ref], IndexEntry{
			ReceivedAt: event.ReceivedAt,
			Event:      event.Body,
		})
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	return ix.save(payments)
}

// Clear removes the persisted document.
func (ix *FileReferenceIndex) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	err := os.Remove(ix.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (ix *FileReferenceIndex) load() (map[string][]IndexEntry, error) {
	raw, err := os.ReadFile(ix.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string][]IndexEntry{}, nil
		}
		return nil, err
	}
	payments := map[string][]IndexEntry{}
	if err := json.Unmarshal(raw, &payments); err != nil {
		// A corrupt document is recoverable via Rebuild; start fresh.
		return map[string][]IndexEntry{}, nil
	}
	return payments, nil
}

func (ix *FileReferenceIndex) save(payments map[string][]IndexEntry) error {
	doc, err := json.MarshalIndent(payments, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ix.path, doc, 0o644)
}
