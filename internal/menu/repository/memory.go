package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/schiefeling-archiv/archiv-backend/internal/menu/domain"
)

// MemoryRepo is an in-memory Store used by tests and local development
// without Firestore credentials.
type MemoryRepo struct {
	mu    sync.Mutex
	seq   int
	items []domain.MenuItem
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.MenuItem, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	item.DocID = fmt.Sprintf("menu-%d", r.seq)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items = append(r.items, item)

	out := item
	return &out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, docID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, it := range r.items {
		if it.DocID == docID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
