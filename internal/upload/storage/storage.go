// Package storage persists uploaded files. Local writes under a directory on
// disk; GCS writes objects into a Cloud Storage bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Local stores files under Dir and reports paths under PublicPrefix.
type Local struct {
	dir    string
	prefix string
}

func NewLocal(dir, publicPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, prefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

func (l *Local) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if strings.ContainsAny(name, `/\`) || name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(l.prefix, name), nil
}

// GCS stores objects in a single bucket.
type GCS struct {
	client *gcs.Client
	bucket string
}

// NewGCS builds a client from a service account key, or from application
// default credentials when credentialsJSON is empty.
func NewGCS(ctx context.Context, bucket, credentialsJSON string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	wc := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name), nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
