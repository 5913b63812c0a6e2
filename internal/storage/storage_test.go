package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_UploadAndDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	res, err := store.Upload(ctx, "evt-1", "radiografia.JPG", strings.NewReader("image bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.FileName != "radiografia.JPG" {
		t.Errorf("FileName = %q", res.FileName)
	}
	if !strings.HasPrefix(res.URL, "/files/evt-1/") {
		t.Errorf("URL = %q, want /files/evt-1/ prefix", res.URL)
	}
	if !strings.HasSuffix(res.URL, ".jpg") {
		t.Errorf("URL = %q, want lowercased extension", res.URL)
	}

	// The file exists on disk under the event directory.
	rel := strings.TrimPrefix(res.URL, "/files/")
	onDisk := filepath.Join(store.Root(), filepath.FromSlash(rel))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("stored contents = %q", data)
	}

	if err := store.Delete(ctx, res.URL); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, res.URL); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestDiskStore_UniqueStoredNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	a, err := store.Upload(ctx, "evt-1", "scan.pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	b, err := store.Upload(ctx, "evt-1", "scan.pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if a.URL == b.URL {
		t.Errorf("same URL for two uploads of the same name: %q", a.URL)
	}
}

func TestDiskStore_DeleteIgnoresForeignURLs(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	for _, url := range []string{
		"https://photos.example.com/abc123",
		"/files/../../../etc/passwd",
		"",
	} {
		if err := store.Delete(ctx, url); err != nil {
			t.Errorf("Delete(%q) = %v", url, err)
		}
	}
}

func TestDiskStore_UploadRequiresEventID(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	if _, err := store.Upload(context.Background(), "", "x.png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty event id")
	}
}

func TestMemoryUploader(t *testing.T) {
	store := NewMemoryUploader()
	ctx := context.Background()

	res, err := store.Upload(ctx, "evt-9", "consulta.m4a", strings.NewReader("audio"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if data, ok := store.Get(res.URL); !ok || string(data) != "audio" {
		t.Errorf("Get(%q) = %q, %v", res.URL, data, ok)
	}

	if err := store.Delete(ctx, res.URL); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := store.Get(res.URL); ok {
		t.Error("file still retrievable after delete")
	}
	if err := store.Delete(ctx, res.URL); err != nil {
		t.Errorf("second delete: %v", err)
	}
}
