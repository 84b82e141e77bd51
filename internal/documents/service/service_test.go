package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiefeling-archiv/archiv-backend/internal/auth"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
)

// capturingRepo records the queries the service issues.
type capturingRepo struct {
	*repository.MemoryRepo
	lastQuery *repository.ListQuery
}

func (r *capturingRepo) List(ctx context.Context, q repository.ListQuery) ([]domain.Document, error) {
	r.lastQuery = &q
	return r.MemoryRepo.List(ctx, q)
}

type fakeFileStore struct {
	uploads map[string]string // objectPath -> contentType
	signed  []string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploads: map[string]string{}}
}

func (f *fakeFileStore) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.uploads[objectPath] = contentType
	return "https://firebasestorage.googleapis.com/v0/b/test/o/" +
		strings.ReplaceAll(objectPath, "/", "%2F") + "?alt=media", nil
}

func (f *fakeFileStore) SignedURL(objectPath string, _ time.Duration) (string, error) {
	f.signed = append(f.signed, objectPath)
	return "https://signed.example/" + objectPath, nil
}

const maxUpload = 5 << 20

func newFixture() (*Service, *capturingRepo, *fakeFileStore) {
	repo := &capturingRepo{MemoryRepo: repository.NewMemoryRepo()}
	files := newFakeFileStore()
	return NewService(repo, files, maxUpload), repo, files
}

func adminIdentity() *auth.Identity {
	return &auth.Identity{UID: "admin-1", Email: "archiv@example.org", Admin: true}
}

func userIdentity() *auth.Identity {
	return &auth.Identity{UID: "user-1", Email: "leser@example.org"}
}

func uploadReq(mut func(*UploadRequest)) UploadRequest {
	req := UploadRequest{
		Filename:    "brief.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Body:        strings.NewReader("fake image bytes"),
		Title:       "Testdokument",
		Date:        "1936",
		Description: "Brief aus dem Exil",
		Section:     "presse",
		Tags:        []string{"FLUCHT"},
		Status:      domain.StatusPrivate,
	}
	if mut != nil {
		mut(&req)
	}
	return req
}

func TestBrowseAnonymousQueriesPublicOnly(t *testing.T) {
	svc, repo, _ := newFixture()

	_, err := svc.Browse(context.Background(), nil, BrowseQuery{Section: "presse"})
	require.NoError(t, err)

	require.NotNil(t, repo.lastQuery)
	assert.True(t, repo.lastQuery.PublicOnly, "anonymous reads must be constrained in the store query")
	assert.Equal(t, "presse", repo.lastQuery.Section)
}

func TestBrowseAuthenticatedSeesAllStatuses(t *testing.T) {
	svc, repo, _ := newFixture()

	_, err := svc.Browse(context.Background(), userIdentity(), BrowseQuery{})
	require.NoError(t, err)

	require.NotNil(t, repo.lastQuery)
	assert.False(t, repo.lastQuery.PublicOnly)
}

func TestUploadThenVisibility(t *testing.T) {
	svc, _, files := newFixture()
	ctx := context.Background()

	doc, err := svc.Upload(ctx, adminIdentity(), uploadReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "Testdokument", doc.Title)
	assert.Equal(t, domain.StatusPrivate, doc.Status)
	assert.Equal(t, domain.FileTypeImage, doc.FileType)
	assert.Equal(t, doc.FileURL, doc.ImageURL, "image uploads render from imageUrl")
	assert.Equal(t, "admin-1", doc.UploaderUID)
	require.Len(t, files.uploads, 1)
	for path := range files.uploads {
		assert.True(t, strings.HasPrefix(path, "historical-documents/"))
		assert.True(t, strings.HasSuffix(path, "_brief.jpg"))
	}

	// The private document is invisible to the public view...
	anon, err := svc.Browse(ctx, nil, BrowseQuery{Tags: []string{"FLUCHT"}})
	require.NoError(t, err)
	assert.Empty(t, anon)

	// ...but the management view finds it.
	managed, err := svc.Manage(ctx, adminIdentity(), ManageQuery{SearchTerm: "testdokument"})
	require.NoError(t, err)
	require.Len(t, managed, 1)
	assert.Equal(t, doc.ID, managed[0].ID)

	// Publishing makes it browsable anonymously.
	require.NoError(t, svc.UpdateStatus(ctx, adminIdentity(), doc.ID, domain.StatusPublic))
	anon, err = svc.Browse(ctx, nil, BrowseQuery{Tags: []string{"FLUCHT"}})
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, doc.ID, anon[0].ID)
}

func TestUploadRequiresAdmin(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	_, err := svc.Upload(ctx, nil, uploadReq(nil))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Upload(ctx, userIdentity(), uploadReq(nil))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUploadValidation(t *testing.T) {
	svc, _, files := newFixture()
	ctx := context.Background()
	admin := adminIdentity()

	_, err := svc.Upload(ctx, admin, uploadReq(func(r *UploadRequest) { r.Title = "" }))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Upload(ctx, admin, uploadReq(func(r *UploadRequest) { r.Section = "" }))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Upload(ctx, admin, uploadReq(func(r *UploadRequest) { r.Size = maxUpload + 1 }))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Upload(ctx, admin, uploadReq(func(r *UploadRequest) { r.ContentType = "video/mp4" }))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Upload(ctx, admin, uploadReq(func(r *UploadRequest) { r.Status = "gone" }))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Upload(ctx, admin, uploadReq(func(r *UploadRequest) { r.Tags = []string{"NICHT-IM-VOKABULAR"} }))
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Empty(t, files.uploads, "rejected uploads must not reach the file store")
}

func TestUploadPDF(t *testing.T) {
	svc, _, _ := newFixture()

	doc, err := svc.Upload(context.Background(), adminIdentity(), uploadReq(func(r *UploadRequest) {
		r.Filename = "zeitung.pdf"
		r.ContentType = "application/pdf"
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.FileTypePDF, doc.FileType)
	assert.Empty(t, doc.ImageURL)
}

func TestUploadDefaultsToPrivate(t *testing.T) {
	svc, _, _ := newFixture()

	doc, err := svc.Upload(context.Background(), adminIdentity(), uploadReq(func(r *UploadRequest) {
		r.Status = ""
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPrivate, doc.Status)
}

func TestManageRequiresUser(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Manage(context.Background(), nil, ManageQuery{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateTags(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()
	admin := adminIdentity()

	doc, err := svc.Upload(ctx, admin, uploadReq(nil))
	require.NoError(t, err)

	err = svc.UpdateTags(ctx, admin, doc.ID, []string{"ZENSUR", "PRESSEFREIHEIT"})
	require.NoError(t, err)

	err = svc.UpdateTags(ctx, admin, doc.ID, []string{"zensur"})
	assert.ErrorIs(t, err, ErrInvalid, "vocabulary check is case-sensitive")

	err = svc.UpdateTags(ctx, userIdentity(), doc.ID, []string{"ZENSUR"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusUnknownDocument(t *testing.T) {
	svc, _, _ := newFixture()

	err := svc.UpdateStatus(context.Background(), adminIdentity(), "missing", domain.StatusPublic)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadURLVisibility(t *testing.T) {
	svc, _, files := newFixture()
	ctx := context.Background()
	admin := adminIdentity()

	doc, err := svc.Upload(ctx, admin, uploadReq(nil))
	require.NoError(t, err)

	// Private document: anonymous callers are refused, signed-in ones served.
	_, err = svc.DownloadURL(ctx, nil, doc.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	url, err := svc.DownloadURL(ctx, userIdentity(), doc.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "https://signed.example/historical-documents/")

	// Public document: anonymous download works.
	require.NoError(t, svc.UpdateStatus(ctx, admin, doc.ID, domain.StatusPublic))
	url, err = svc.DownloadURL(ctx, nil, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "_brief.jpg")

	require.NotEmpty(t, files.signed)
	assert.True(t, strings.HasPrefix(files.signed[0], "historical-documents/"))
}

func TestDownloadURLUnknownDocument(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.DownloadURL(context.Background(), userIdentity(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
