package store

import (
	"context"
	"sync"

	"github.com/tesseraworks/tessera/codec"
	"github.com/tesseraworks/tessera/snapshot"
)

// MemoryStore keeps encoded records in a map. It is the default backend and
// the one tests reach for.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, rec *snapshot.Record) error {
	bz, err := codec.Encode(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = bz
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*snapshot.Record, error) {
	s.mu.RLock()
	bz, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	rec, err := codec.Decode[snapshot.Record](bz)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(s.records, id)
	return nil
}
