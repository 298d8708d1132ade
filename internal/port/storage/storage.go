package storage

import "context"

// BlobStorage accepts bytes and returns a public URL.
type BlobStorage interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}
