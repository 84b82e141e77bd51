package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
)

const collection = "historical-documents"

// ListQuery is the store-side part of document retrieval. PublicOnly is the
// security-relevant constraint: for unauthenticated callers the status filter
// is part of the query itself, never only applied client-side afterwards.
type ListQuery struct {
	Section    string // "" or "all" = every section
	PublicOnly bool
}

// Store is the document persistence contract.
type Store interface {
	List(ctx context.Context, q ListQuery) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Create(ctx context.Context, doc domain.Document) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	UpdateTags(ctx context.Context, id string, tags []string) error
}

// FirestoreRepo persists documents in the `historical-documents` collection.
type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

// List returns matching documents sorted by creation time descending.
func (r *FirestoreRepo) List(ctx context.Context, q ListQuery) ([]domain.Document, error) {
	query := r.client.Collection(collection).Query
	if q.Section != "" && q.Section != domain.SectionAll {
		query = query.Where("section", "==", q.Section)
	}
	if q.PublicOnly {
		query = query.Where("status", "==", string(domain.StatusPublic))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	out := make([]domain.Document, 0, 32)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		out = append(out, decodeDocument(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

func (r *FirestoreRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	snap, err := r.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}

	doc := decodeDocument(snap.Ref.ID, snap.Data())
	return &doc, nil
}

func (r *FirestoreRepo) Create(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	fields := map[string]interface{}{
		"title":       doc.Title,
		"date":        doc.Date,
		"fileUrl":     doc.FileURL,
		"imageUrl":    doc.ImageURL,
		"fileType":    string(doc.FileType),
		"description": doc.Description,
		"section":     doc.Section,
		"tags":        doc.Tags,
		"status":      string(doc.Status),
		"createdAt":   doc.CreatedAt,
		"userId":      doc.UploaderUID,
	}

	ref, _, err := r.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	doc.ID = ref.ID
	return &doc, nil
}

func (r *FirestoreRepo) UpdateStatus(ctx context.Context, id string, s domain.Status) error {
	_, err := r.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(s)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update status of document %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreRepo) UpdateTags(ctx context.Context, id string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	_, err := r.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "tags", Value: tags},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update tags of document %s: %w", id, err)
	}
	return nil
}

// decodeDocument applies the tolerance-of-partial-data policy: optional or
// malformed fields default (empty string, empty tag set, private status)
// instead of failing the whole fetch.
func decodeDocument(id string, data map[string]interface{}) domain.Document {
	doc := domain.Document{
		ID:       id,
		FileType: domain.FileTypeImage,
		Status:   domain.StatusPrivate,
		Tags:     []string{},
	}

	if v, ok := data["title"].(string); ok {
		doc.Title = v
	}
	if v, ok := data["date"].(string); ok {
		doc.Date = v
	}
	if v, ok := data["fileUrl"].(string); ok {
		doc.FileURL = v
	}
	if v, ok := data["imageUrl"].(string); ok {
		doc.ImageURL = v
	}
	if v, ok := data["fileType"].(string); ok && v != "" {
		doc.FileType = domain.FileType(v)
	}
	if v, ok := data["description"].(string); ok {
		doc.Description = v
	}
	if v, ok := data["section"].(string); ok {
		doc.Section = v
	}
	if v, ok := data["tags"].([]interface{}); ok {
		for _, t := range v {
			if s, ok := t.(string); ok {
				doc.Tags = append(doc.Tags, s)
			}
		}
	}
	if v, ok := data["status"].(string); ok && domain.ValidStatus(domain.Status(v)) {
		doc.Status = domain.Status(v)
	}
	if v, ok := data["createdAt"].(time.Time); ok {
		doc.CreatedAt = v
	} else {
		doc.CreatedAt = time.Now().UTC()
	}
	if v, ok := data["userId"].(string); ok {
		doc.UploaderUID = v
	}

	return doc
}
