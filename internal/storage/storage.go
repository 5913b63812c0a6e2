// Package storage persists uploaded files (photos, audio recordings)
// and hands back the URL that gets linked to a medical event.
package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored file
type UploadResult struct {
	// URL is what callers link to the event. For disk storage it is a
	// server-relative path under /files/.
	URL      string
	FileName string
}

// Uploader stores and removes uploaded files. Delete tolerates URLs
// that no longer resolve to a stored file.
type Uploader interface {
	Upload(ctx context.Context, eventID, fileName string, r io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, url string) error
}
