package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/modybick/pos/internal/repository"
)

const stateKey = "terminal_id"

// Manager hands out the stable terminal identifier stamped on every sale.
// The first call generates and persists a UUID; every later call, in this
// process or after a restart, returns the same value. Concurrent first
// callers race on the store's insert-if-absent, so exactly one identifier is
// ever persisted.
type Manager struct {
	repo repository.StateRepository

	mu sync.Mutex
	id string
}

func NewManager(repo repository.StateRepository) *Manager {
	return &Manager{repo: repo}
}

func (m *Manager) GetOrCreate(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.id != "" {
		return m.id, nil
	}

	id, err := m.repo.EnsureState(ctx, stateKey, uuid.NewString())
	if err != nil {
		return "", err
	}

	m.id = id
	return id, nil
}
