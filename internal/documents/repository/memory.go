package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
)

// MemoryRepo is the in-memory Store used by tests and local development.
type MemoryRepo struct {
	mu   sync.Mutex
	seq  int
	docs []domain.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) List(_ context.Context, q ListQuery) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Document, 0, len(r.docs))
	for _, d := range r.docs {
		if q.Section != "" && q.Section != domain.SectionAll && d.Section != q.Section {
			continue
		}
		if q.PublicOnly && d.Status != domain.StatusPublic {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.docs {
		if d.ID == id {
			copy := d
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryRepo) Create(_ context.Context, doc domain.Document) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	doc.ID = fmt.Sprintf("doc-%d", r.seq)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	r.docs = append(r.docs, doc)

	copy := doc
	return &copy, nil
}

func (r *MemoryRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.docs {
		if r.docs[i].ID == id {
			r.docs[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MemoryRepo) UpdateTags(_ context.Context, id string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tags == nil {
		tags = []string{}
	}
	for i := range r.docs {
		if r.docs[i].ID == id {
			r.docs[i].Tags = tags
			return nil
		}
	}
	return domain.ErrNotFound
}
