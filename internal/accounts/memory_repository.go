package accounts

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu          sync.RWMutex
	storage     map[string]Account
	adjustments map[string]struct{}
}

// NewMemoryRepository constructs an in-memory repository for tests and local runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Account), adjustments: make(map[string]struct{})}
}

func (r *memoryRepository) Create(_ context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[account.ID]; exists {
		return ErrExists
	}
	r.storage[account.ID] = account
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.storage[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	out := make([]Account, 0, len(r.storage))
	for _, account := range r.storage {
		out = append(out, account)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) SetBalance(_ context.Context, id string, balance float64) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.storage[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	account.Balance = balance
	r.storage[id] = account
	return account, nil
}

func (r *memoryRepository) Adjust(_ context.Context, id string, delta float64, reference string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.storage[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	if _, applied := r.adjustments[reference]; applied {
		return account, nil
	}
	r.adjustments[reference] = struct{}{}
	account.Balance += delta
	r.storage[id] = account
	return account, nil
}
