package payments

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventStore is the append-only log of webhook deliveries. Events survive
// process restart and come back in insertion order. Implementations must be
// safe for concurrent use.
type EventStore interface {
	Append(event WebhookEvent) error
	ReadAll() ([]WebhookEvent, error)
	// ReadSince returns events after the given offset (a count of events
	// already consumed), so pollers avoid re-reducing the whole log.
	ReadSince(offset int) ([]WebhookEvent, error)
	// Clear removes all stored events. Administrative use only; normal
	// operation never deletes from the log.
	Clear() error
}

// FileEventStore persists events as newline-delimited JSON, one
// self-contained record per line, in the tradition of a plain log file a
// human can inspect. Each append is a single write of one complete line so
// concurrent deliveries cannot interleave inside a record.
type FileEventStore struct {
	path string
	mu   sync.Mutex
}

// NewFileEventStore creates the store and its parent directory if absent.
func NewFileEventStore(path string) (*FileEventStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileEventStore{path: path}, nil
}

// Append durably writes one event record.
func (s *FileEventStore) Append(event WebhookEvent) error {
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return err
	}
	return f.Sync()
}

// ReadAll returns every stored event in insertion order. Each line is parsed
// independently: a corrupt or truncated record becomes a placeholder entry
// carrying the raw line and never prevents reading the valid ones. Lines are
// read without a length cap; an escaped text body can be far larger than the
// HTTP body limit, and one oversized record must not poison the read path.
func (s *FileEventStore) ReadAll() ([]WebhookEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []WebhookEvent{}, nil
		}
		return nil, err
	}
	defer f.Close()

	events := []WebhookEvent{}
	reader := bufio.NewReader(f)
	for {
		line, readErr := reader.ReadBytes('\n')
		line = bytes.TrimRight(line, "\n")
		if len(line) > 0 {
			var event WebhookEvent
			if err := json.Unmarshal(line, &event); err != nil {
				events = append(events, WebhookEvent{
					ReceivedAt: time.Now(),
					Body:       string(line),
				})
			} else {
				events = append(events, event)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return events, nil
			}
			return nil, readErr
		}
	}
}

// ReadSince returns events appended after the first offset events.
func (s *FileEventStore) ReadSince(offset int) ([]WebhookEvent, error) {
	events, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(events) {
		return []WebhookEvent{}, nil
	}
	return events[offset:], nil
}

// Clear truncates the log.
func (s *FileEventStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
