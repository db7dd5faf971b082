package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out transient local file URLs for blobs the UI needs to
// render before they are uploaded. Every allocated handle must be released;
// Close releases whatever is still outstanding.
type Registry struct {
	mu      sync.Mutex
	dir     string
	handles map[string]string
}

// NewRegistry creates a registry rooted at baseDir (the OS temp directory
// when empty).
func NewRegistry(baseDir string) (*Registry, error) {
	dir, err := os.MkdirTemp(baseDir, "sentiment-preview-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &Registry{
		dir:     dir,
		handles: make(map[string]string),
	}, nil
}

// Allocate writes data to a transient file and returns a URL handle for it.
func (r *Registry) Allocate(name string, data []byte) (string, error) {
	if name == "" {
		name = "blob"
	}
	path := filepath.Join(r.dir, uuid.NewString()+"-"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}

	url := "file://" + path
	r.mu.Lock()
	r.handles[url] = path
	r.mu.Unlock()
	return url, nil
}

// Release revokes a handle. Unknown or already-released handles are a no-op.
func (r *Registry) Release(url string) {
	r.mu.Lock()
	path, ok := r.handles[url]
	if ok {
		delete(r.handles, url)
	}
	r.mu.Unlock()

	if ok {
		_ = os.Remove(path)
	}
}

// Outstanding returns the number of live handles.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Close releases every outstanding handle and removes the backing directory.
func (r *Registry) Close() error {
	r.mu.Lock()
	for url, path := range r.handles {
		_ = os.Remove(path)
		delete(r.handles, url)
	}
	r.mu.Unlock()
	return os.RemoveAll(r.dir)
}
