package storage

import (
	"context"
	"io"
	"strings"
)

// ImageStore persists uploaded images and reports the URL they are served from.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
