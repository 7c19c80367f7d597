package activity

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu  sync.RWMutex
	txs []Transaction
}

// NewMemoryRepository constructs an in-memory transaction store.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, tx)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tx := range r.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return Transaction{}, ErrNotFound
}

// Last walks insertion order backwards, which is dated order for this store.
func (r *memoryRepository) Last(_ context.Context, accountID string, limit int) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Transaction{}
	for i := len(r.txs) - 1; i >= 0 && len(out) < limit; i-- {
		tx := r.txs[i]
		if tx.AccountID == accountID || tx.Destination == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}
