package storage

import (
	"context"
	"sync"

	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
	"github.com/mitchelldurbincs/Evolve2048/internal/population"
)

// MemoryStore keeps encoded payloads in maps. Payloads go through the codec
// so callers never share slices with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	networks    map[string][]byte
	generations map[string][]population.Summary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.networks = make(map[string][]byte)
	s.generations = make(map[string][]population.Summary)
	return nil
}

func (s *MemoryStore) SaveNetwork(_ context.Context, name string, rec nn.Record) error {
	if err := validName(name); err != nil {
		return err
	}
	payload, err := EncodeNetwork(name, rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrStoreNotInitialized
	}
	s.networks[name] = payload
	return nil
}

func (s *MemoryStore) LoadNetwork(_ context.Context, name string) (nn.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nn.Record{}, false, ErrStoreNotInitialized
	}
	payload, ok := s.networks[name]
	if !ok {
		return nn.Record{}, false, nil
	}
	rec, err := DecodeNetwork(payload)
	if err != nil {
		return nn.Record{}, false, err
	}
	return rec, true, nil
}

func (s *MemoryStore) SaveGeneration(_ context.Context, summary population.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrStoreNotInitialized
	}
	s.generations[summary.RunID] = append(s.generations[summary.RunID], summary)
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]population.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrStoreNotInitialized
	}
	return append([]population.Summary(nil), s.generations[runID]...), nil
}

func (s *MemoryStore) Close() error { return nil }
