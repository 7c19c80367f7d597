package cards

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	cards map[string]Card
}

// NewMemoryRepository constructs an in-memory card store.
func NewMemoryRepository() Repository {
	return &memoryRepository{cards: make(map[string]Card)}
}

func (r *memoryRepository) Create(_ context.Context, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cards {
		if existing.AccountID == card.AccountID && existing.Number == card.Number {
			return ErrExists
		}
	}
	r.cards[card.ID] = card
	return nil
}

func (r *memoryRepository) List(_ context.Context, accountID string) ([]Card, error) {
	r.mu.RLock()
	out := []Card{}
	for _, card := range r.cards {
		if card.AccountID == accountID {
			out = append(out, card)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) Get(_ context.Context, accountID, id string) (Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[id]
	if !ok || card.AccountID != accountID {
		return Card{}, ErrNotFound
	}
	return card, nil
}

func (r *memoryRepository) Delete(_ context.Context, accountID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok || card.AccountID != accountID {
		return ErrNotFound
	}
	delete(r.cards, id)
	return nil
}
