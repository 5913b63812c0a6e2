package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// urlPrefix is where the HTTP layer serves stored files from
const urlPrefix = "/files/"

// DiskStore writes uploads under a root directory, one subdirectory per
// event. File names are regenerated on store so uploads can never
// collide or traverse outside the root.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Root returns the directory files are stored under
func (s *DiskStore) Root() string {
	return s.root
}

// Upload writes the file to <root>/<eventID>/<uuid><ext> and returns
// the /files/ URL for it. The original file name survives only in the
// result, for display.
func (s *DiskStore) Upload(ctx context.Context, eventID, fileName string, r io.Reader) (*UploadResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	dir := filepath.Join(s.root, eventID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create event dir: %w", err)
	}

	stored := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
	dst, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      urlPrefix + eventID + "/" + stored,
		FileName: fileName,
	}, nil
}

// Delete removes the stored file for a /files/ URL. Foreign URLs and
// already-deleted files are a no-op.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, urlPrefix)
	if !ok {
		return nil
	}
	rel = path.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}

	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
