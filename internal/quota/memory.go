package quota

import (
	"context"
	"sync"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

// MemoryStore keeps counters in process memory. Counters are lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]models.QuotaState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]models.QuotaState)}
}

func (s *MemoryStore) Load(_ context.Context, scope string) (*models.QuotaState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[scope]
	if !ok {
		return nil, false, nil
	}
	return &st, true, nil
}

func (s *MemoryStore) Save(_ context.Context, scope string, st *models.QuotaState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[scope] = *st
	return nil
}
