package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/schiefeling-archiv/archiv-backend/internal/menu/domain"
)

// Repository is the slice of the menu store the service needs.
type Repository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	Delete(ctx context.Context, docID string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the flat, order-sorted menu item list (used by the upload form's
// section picker).
func (s *Service) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

// Tree returns the menu forest for sidebar rendering.
func (s *Service) Tree(ctx context.Context) ([]*domain.Node, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(items), nil
}

// Create adds a menu item. The hierarchy is derived from the dotted key the
// admin assigns: "2.1" hangs under "2" with order 1; a key without a dot is a
// root. A non-numeric final segment falls back to appending after the current
// items, matching how the sidebar always behaved.
func (s *Service) Create(ctx context.Context, id, title, iconName string) (*domain.MenuItem, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return nil, fmt.Errorf("id required")
	}
	if title == "" {
		return nil, fmt.Errorf("title required")
	}
	if iconName == "" {
		iconName = "FolderOpen"
	}

	parts := strings.Split(id, ".")
	parentID := ""
	if len(parts) > 1 {
		parentID = strings.Join(parts[:len(parts)-1], ".")
	}

	order, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || order == 0 {
		existing, listErr := s.repo.List(ctx)
		if listErr != nil {
			return nil, listErr
		}
		order = len(existing) + 1
	}

	return s.repo.Create(ctx, domain.MenuItem{
		ID:       id,
		Title:    title,
		IconName: iconName,
		ParentID: parentID,
		Order:    order,
	})
}

// Delete removes a menu item by its record-store document id.
func (s *Service) Delete(ctx context.Context, docID string) error {
	if strings.TrimSpace(docID) == "" {
		return fmt.Errorf("doc id required")
	}
	return s.repo.Delete(ctx, docID)
}
