package maintenance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiefeling-archiv/archiv-backend/internal/documents/domain"
	"github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
)

type fakeObjects struct {
	names []string
}

func (f *fakeObjects) List(_ context.Context, prefix string) ([]string, error) {
	return f.names, nil
}

func fileURL(objectPath string) string {
	return "https://firebasestorage.googleapis.com/v0/b/test/o/historical-documents%2F" +
		objectPath + "?alt=media"
}

func TestSweepFindsUnreferencedObjects(t *testing.T) {
	repo := repository.NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Document{
		Title:   "Brief",
		FileURL: fileURL("1_brief.jpg"),
		Status:  domain.StatusPublic,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Document{
		Title:    "Zeitung",
		FileURL:  fileURL("2_zeitung.pdf"),
		ImageURL: fileURL("2_zeitung_thumb.jpg"),
		Status:   domain.StatusPrivate,
	})
	require.NoError(t, err)

	objects := &fakeObjects{names: []string{
		"historical-documents/1_brief.jpg",
		"historical-documents/2_zeitung.pdf",
		"historical-documents/2_zeitung_thumb.jpg",
		"historical-documents/9_verwaist.jpg",
	}}

	orphans, err := NewOrphanSweeper(objects, repo).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"historical-documents/9_verwaist.jpg"}, orphans)
}

func TestSweepAllReferenced(t *testing.T) {
	repo := repository.NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Document{
		Title:   "Brief",
		FileURL: fileURL("1_brief.jpg"),
		Status:  domain.StatusPublic,
	})
	require.NoError(t, err)

	objects := &fakeObjects{names: []string{"historical-documents/1_brief.jpg"}}

	orphans, err := NewOrphanSweeper(objects, repo).Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestSweepIgnoresUnparsableFileURL(t *testing.T) {
	repo := repository.NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Document{
		Title:   "Kaputt",
		FileURL: "https://example.org/woanders.jpg",
		Status:  domain.StatusPrivate,
	})
	require.NoError(t, err)

	objects := &fakeObjects{names: []string{"historical-documents/1_brief.jpg"}}

	orphans, err := NewOrphanSweeper(objects, repo).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"historical-documents/1_brief.jpg"}, orphans)
}
