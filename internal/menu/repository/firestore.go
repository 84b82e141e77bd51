package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/schiefeling-archiv/archiv-backend/internal/menu/domain"
)

const collection = "menu-items"

// Store is what the cache wrapper and the service consume; the Firestore and
// in-memory repositories both satisfy it.
type Store interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	Delete(ctx context.Context, docID string) error
}

// FirestoreRepo persists menu items in the `menu-items` collection.
type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

// List returns all menu items ordered ascending by `order`, matching the
// store-side sort the sidebar and upload form rely on.
func (r *FirestoreRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	iter := r.client.Collection(collection).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := make([]domain.MenuItem, 0, 16)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list menu items: %w", err)
		}
		out = append(out, decodeItem(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

func (r *FirestoreRepo) Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	fields := map[string]interface{}{
		"id":        item.ID,
		"title":     item.Title,
		"iconName":  item.IconName,
		"order":     item.Order,
		"parentId":  nullable(item.ParentID),
		"createdAt": item.CreatedAt,
	}

	ref, _, err := r.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	item.DocID = ref.ID
	return &item, nil
}

func (r *FirestoreRepo) Delete(ctx context.Context, docID string) error {
	if _, err := r.client.Collection(collection).Doc(docID).Delete(ctx); err != nil {
		return fmt.Errorf("delete menu item %s: %w", docID, err)
	}
	return nil
}

// decodeItem tolerates missing or mistyped fields: the store enforces no
// schema, so each field falls back to a defined default instead of failing
// the whole fetch.
func decodeItem(docID string, data map[string]interface{}) domain.MenuItem {
	item := domain.MenuItem{DocID: docID, IconName: "FolderOpen"}

	if v, ok := data["id"].(string); ok {
		item.ID = v
	}
	if v, ok := data["title"].(string); ok {
		item.Title = v
	}
	if v, ok := data["iconName"].(string); ok && v != "" {
		item.IconName = v
	}
	if v, ok := data["parentId"].(string); ok {
		item.ParentID = v
	}
	item.Order = asInt(data["order"])
	if v, ok := data["createdAt"].(time.Time); ok {
		item.CreatedAt = v
	}

	return item
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// Roots are stored as an explicit null parentId, like the original records.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
