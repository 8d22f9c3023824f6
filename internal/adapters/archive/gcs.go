// Package archive stores the raw bytes of uploaded statements.
package archive

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSArchive writes objects to a Cloud Storage bucket.
type GCSArchive struct {
	client *storage.Client
	bucket string
}

// NewGCSArchive connects with credentialsJSON when set, otherwise with
// application default credentials.
func NewGCSArchive(ctx context.Context, bucket, credentialsJSON string) (*GCSArchive, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSArchive{client: client, bucket: bucket}, nil
}

// Store uploads data under key and returns its gs:// URI.
func (a *GCSArchive) Store(ctx context.Context, key string, data []byte) (string, error) {
	key = strings.TrimPrefix(key, "/")
	wc := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentTypeFor(key)
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("write gs://%s/%s: %w", a.bucket, key, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("close gs://%s/%s: %w", a.bucket, key, err)
	}
	return fmt.Sprintf("gs://%s/%s", a.bucket, key), nil
}

func (a *GCSArchive) Close() error {
	return a.client.Close()
}

func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
