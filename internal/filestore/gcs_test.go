package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadURLEscapesObjectPath(t *testing.T) {
	g := &GCS{bucket: "archiv-test.appspot.com"}

	url := g.DownloadURL("historical-documents/1700000000000_brief.jpg")
	assert.Equal(t,
		"https://firebasestorage.googleapis.com/v0/b/archiv-test.appspot.com/o/historical-documents%2F1700000000000_brief.jpg?alt=media",
		url)
}

func TestObjectPathFromURLRoundTrip(t *testing.T) {
	g := &GCS{bucket: "archiv-test.appspot.com"}

	path := "historical-documents/1700000000000_zeitung 1936.pdf"
	got, err := ObjectPathFromURL(g.DownloadURL(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestObjectPathFromURLRejectsForeignURL(t *testing.T) {
	_, err := ObjectPathFromURL("https://example.org/files/brief.jpg")
	assert.Error(t, err)
}

func TestObjectPathFromURLRejectsGarbage(t *testing.T) {
	_, err := ObjectPathFromURL("://not a url")
	assert.Error(t, err)
}
