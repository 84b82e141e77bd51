package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/schiefeling-archiv/archiv-backend/internal/auth"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
	"github.com/schiefeling-archiv/archiv-backend/internal/filestore"
)

// ErrInvalid marks caller mistakes (bad input, oversize upload). Handlers map
// it to a 400 instead of a 500.
var ErrInvalid = errors.New("invalid request")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...)
}

// ErrForbidden marks access a caller's identity does not permit.
var ErrForbidden = errors.New("forbidden")

// FileStore is the blob storage the service uploads to and signs URLs against.
type FileStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	SignedURL(objectPath string, expires time.Duration) (string, error)
}

// Repository is the slice of the document store the service needs.
type Repository interface {
	List(ctx context.Context, q repository.ListQuery) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Create(ctx context.Context, doc domain.Document) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	UpdateTags(ctx context.Context, id string, tags []string) error
}

const (
	uploadPrefix     = "historical-documents/"
	downloadURLValid = 15 * time.Minute
)

// Service implements the document operations of the archive.
type Service struct {
	repo     Repository
	files    FileStore
	maxBytes int64
}

func NewService(repo Repository, files FileStore, maxUploadBytes int64) *Service {
	return &Service{repo: repo, files: files, maxBytes: maxUploadBytes}
}

// BrowseQuery is the public reading-room view of the archive.
type BrowseQuery struct {
	Section    string
	SearchTerm string
	Tags       []string
	YearStart  int
	YearEnd    int
}

// Browse lists documents for the public view. Anonymous callers only ever see
// public documents, enforced in the store query rather than after the fetch.
// Tag selection widens here (any selected tag matches).
func (s *Service) Browse(ctx context.Context, id *auth.Identity, q BrowseQuery) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx, repository.ListQuery{
		Section:    q.Section,
		PublicOnly: id == nil,
	})
	if err != nil {
		return nil, err
	}

	start, end := q.YearStart, q.YearEnd
	if start == 0 {
		start = domain.ArchiveYearMin
	}
	if end == 0 {
		end = domain.ArchiveYearMax
	}

	f := domain.Filter{
		SearchTerm: q.SearchTerm,
		Tags:       q.Tags,
		TagMode:    domain.TagModeAny,
		Section:    q.Section,
		Years:      &domain.YearRange{Start: start, End: end},
	}
	return f.Apply(docs), nil
}

// ManageQuery is the authenticated management view of the archive.
type ManageQuery struct {
	Section    string
	SearchTerm string
	Tags       []string
	Status     string
}

// Manage lists documents for the management view. Requires an authenticated
// caller; sees every status, searches descriptions too, and tag selection
// narrows (all selected tags must be present).
func (s *Service) Manage(ctx context.Context, id *auth.Identity, q ManageQuery) ([]domain.Document, error) {
	if id == nil {
		return nil, ErrForbidden
	}

	docs, err := s.repo.List(ctx, repository.ListQuery{Section: q.Section})
	if err != nil {
		return nil, err
	}

	f := domain.Filter{
		SearchTerm:        q.SearchTerm,
		SearchDescription: true,
		Tags:              q.Tags,
		TagMode:           domain.TagModeAll,
		Status:            domain.Status(q.Status),
		Section:           q.Section,
	}
	return f.Apply(docs), nil
}

// UploadRequest carries the file and its metadata from the admin form.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader

	Title       string
	Date        string
	Description string
	Section     string
	Tags        []string
	Status      domain.Status
}

// Upload stores the file and creates its record. The file goes in first; if
// the record write then fails, the object stays behind and is logged for the
// orphan sweep rather than deleted here.
func (s *Service) Upload(ctx context.Context, id *auth.Identity, req UploadRequest) (*domain.Document, error) {
	if id == nil || !id.Admin {
		return nil, ErrForbidden
	}

	if req.Title == "" {
		return nil, invalidf("title required")
	}
	if req.Section == "" {
		return nil, invalidf("section required")
	}
	if req.Size > s.maxBytes {
		return nil, invalidf("file exceeds %d bytes", s.maxBytes)
	}

	fileType, err := fileTypeFor(req.ContentType)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPrivate
	}
	if !domain.ValidStatus(status) {
		return nil, invalidf("unknown status %q", status)
	}

	for _, t := range req.Tags {
		if !domain.IsKnownTag(t) {
			return nil, invalidf("unknown tag %q", t)
		}
	}

	objectPath := fmt.Sprintf("%s%d_%s", uploadPrefix, time.Now().UnixMilli(), req.Filename)
	fileURL, err := s.files.Upload(ctx, objectPath, req.ContentType, req.Body)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	doc := domain.Document{
		Title:       req.Title,
		Date:        req.Date,
		FileURL:     fileURL,
		FileType:    fileType,
		Description: req.Description,
		Section:     req.Section,
		Tags:        req.Tags,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UploaderUID: id.UID,
	}
	if fileType == domain.FileTypeImage {
		// Images render inline from imageUrl; it points at the same object.
		doc.ImageURL = fileURL
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		log.Printf("document record write failed, object %s is orphaned: %v", objectPath, err)
		return nil, fmt.Errorf("create document record: %w", err)
	}
	return created, nil
}

// UpdateStatus changes a document's visibility. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, id *auth.Identity, docID string, status domain.Status) error {
	if id == nil || !id.Admin {
		return ErrForbidden
	}
	if !domain.ValidStatus(status) {
		return invalidf("unknown status %q", status)
	}
	return s.repo.UpdateStatus(ctx, docID, status)
}

// UpdateTags replaces a document's tag set. Admin only; every tag must be in
// the vocabulary.
func (s *Service) UpdateTags(ctx context.Context, id *auth.Identity, docID string, tags []string) error {
	if id == nil || !id.Admin {
		return ErrForbidden
	}
	for _, t := range tags {
		if !domain.IsKnownTag(t) {
			return invalidf("unknown tag %q", t)
		}
	}
	return s.repo.UpdateTags(ctx, docID, tags)
}

// DownloadURL resolves a short-lived signed URL for a document's file.
// Anonymous callers can only fetch public documents.
func (s *Service) DownloadURL(ctx context.Context, id *auth.Identity, docID string) (string, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	if id == nil && doc.Status != domain.StatusPublic {
		return "", ErrForbidden
	}

	objectPath, err := filestore.ObjectPathFromURL(doc.FileURL)
	if err != nil {
		return "", fmt.Errorf("resolve object path: %w", err)
	}
	return s.files.SignedURL(objectPath, downloadURLValid)
}

func fileTypeFor(contentType string) (domain.FileType, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.FileTypeImage, nil
	case contentType == "application/pdf":
		return domain.FileTypePDF, nil
	}
	return "", invalidf("unsupported content type %q", contentType)
}
