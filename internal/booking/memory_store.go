package booking

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default in-process Store. It keeps records in insertion
// order, which doubles as creation order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, rec Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = NewID()
	rec.CreatedAt = time.Now().UTC()
	if rec.Meta == nil {
		rec.Meta = map[string]any{}
	}
	s.records = append(s.records, rec)
	out := rec
	return &out, nil
}

func (s *MemoryStore) Find(_ context.Context, f Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, u Update) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if u.Date != nil {
			s.records[i].Date = *u.Date
		}
		if u.Time != nil {
			s.records[i].Time = *u.Time
		}
		if u.Location != nil {
			s.records[i].Location = *u.Location
		}
		if u.Meta != nil {
			s.records[i].Meta = u.Meta
		}
		out := s.records[i]
		return &out, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemoryStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

func (s *MemoryStore) SeedDemoData(ctx context.Context) error {
	for _, rec := range demoRecords(time.Now().UTC()) {
		if _, err := s.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
