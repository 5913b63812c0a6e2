package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryUploader holds uploads in memory. Pairs with the in-memory
// repositories for tests and ephemeral runs.
type MemoryUploader struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryUploader returns an empty in-memory uploader
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{files: make(map[string][]byte)}
}

// Upload reads the file into memory and returns its /files/ URL
func (s *MemoryUploader) Upload(ctx context.Context, eventID, fileName string, r io.Reader) (*UploadResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	stored := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
	url := urlPrefix + eventID + "/" + stored

	s.mu.Lock()
	s.files[url] = data
	s.mu.Unlock()

	return &UploadResult{URL: url, FileName: fileName}, nil
}

// Delete forgets the stored file; unknown URLs are a no-op
func (s *MemoryUploader) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	delete(s.files, url)
	s.mu.Unlock()
	return nil
}

// Get returns the stored bytes for a URL, for tests
func (s *MemoryUploader) Get(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[url]
	return data, ok
}
