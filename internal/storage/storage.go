package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore persists uploaded binary blobs and returns a public URL for each.
// The rest of the application only ever sees the URL.
type BlobStore interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// LocalStore writes blobs under a root directory that the HTTP server exposes
// as static files.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a store rooted at dir, serving files under baseURL/uploads.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{root: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

var _ BlobStore = (*LocalStore)(nil)

// Save stores the blob under a random name, keeping the original extension.
func (s *LocalStore) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.baseURL + "/uploads/" + folder + "/" + name, nil
}
