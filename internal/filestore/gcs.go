package filestore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCS stores uploaded files in a Cloud Storage bucket and hands out the
// Firebase-style download URLs the frontend persists in document records.
type GCS struct {
	client *storage.Client
	bucket string

	// signing identity, loaded from the service account key
	accessID   string
	privateKey []byte
}

// NewGCS builds a file store over the given bucket. The credentials file is
// also the source of the signing key for short-lived download URLs.
func NewGCS(ctx context.Context, bucket, credentialsPath string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	g := &GCS{client: client, bucket: bucket}

	if credentialsPath != "" {
		raw, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		conf, err := google.JWTConfigFromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		g.accessID = conf.Email
		g.privateKey = conf.PrivateKey
	}

	return g, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

// Upload writes the object and returns its public download URL.
func (g *GCS) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	w := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", objectPath, err)
	}

	return g.DownloadURL(objectPath), nil
}

// DownloadURL renders the Firebase Storage media URL for an object. Path
// separators are escaped as %2F, matching what the Firebase SDKs emit.
func (g *GCS) DownloadURL(objectPath string) string {
	escaped := url.PathEscape(objectPath)
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", g.bucket, escaped)
}

// ObjectPathFromURL recovers the object path from a stored download URL.
func ObjectPathFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}

	const marker = "/o/"
	idx := strings.Index(u.Path, marker)
	var escaped string
	if idx >= 0 {
		escaped = u.Path[idx+len(marker):]
	} else if u.RawPath != "" {
		// url.Parse already decoded %2F in u.Path for some URL shapes; fall
		// back to the raw path when the marker hides behind encoding.
		if i := strings.Index(u.RawPath, marker); i >= 0 {
			escaped = u.RawPath[i+len(marker):]
		}
	}
	if escaped == "" {
		return "", fmt.Errorf("no object path in url %q", fileURL)
	}

	path, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("unescape object path: %w", err)
	}
	return path, nil
}

// SignedURL returns a V4-signed GET URL valid for the given duration.
func (g *GCS) SignedURL(objectPath string, expires time.Duration) (string, error) {
	if g.accessID == "" {
		return "", fmt.Errorf("no signing credentials configured")
	}
	u, err := g.client.Bucket(g.bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		GoogleAccessID: g.accessID,
		PrivateKey:     g.privateKey,
		Expires:        time.Now().Add(expires),
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", objectPath, err)
	}
	return u, nil
}

// List returns the object names under the given prefix.
func (g *GCS) List(ctx context.Context, prefix string) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects under %s: %w", prefix, err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}
