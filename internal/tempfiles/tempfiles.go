// Package tempfiles tracks the intermediate files of one submission so they
// can be released together, whatever way the submission ends.
package tempfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const dirPerm = 0o750

// Manager owns a private directory below root and every path allocated in it.
type Manager struct {
	root string
	id   string

	mu      sync.Mutex
	files   []string
	created bool
}

// New returns a manager whose directory is root/<uuid>. The directory is
// created on first allocation.
func New(root string) *Manager {
	if root == "" {
		root = os.TempDir()
	}
	return &Manager{root: root, id: uuid.New().String()}
}

// ID is the unique token embedded in every path of this manager.
func (m *Manager) ID() string {
	return m.id
}

// Dir is the manager's private directory.
func (m *Manager) Dir() string {
	return filepath.Join(m.root, m.id)
}

// Len reports how many paths are currently tracked.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// Allocate reserves a path in the manager's directory. An empty name gets a
// generated one. Nothing is written to the path.
func (m *Manager) Allocate(name string) (string, error) {
	if name == "" {
		name = uuid.New().String() + ".pdf"
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("tempfiles: invalid name %q", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.created {
		if err := os.MkdirAll(m.Dir(), dirPerm); err != nil {
			return "", fmt.Errorf("tempfiles: create dir: %w", err)
		}
		m.created = true
	}
	path := filepath.Join(m.Dir(), name)
	for _, f := range m.files {
		if f == path {
			return "", fmt.Errorf("tempfiles: %s already allocated", name)
		}
	}
	m.files = append(m.files, path)
	return path, nil
}

// WriteBytes writes data to path, which must be owned by this manager.
func (m *Manager) WriteBytes(path string, data []byte) error {
	if !m.owns(path) {
		return fmt.Errorf("tempfiles: %s is not managed here", path)
	}
	return os.WriteFile(path, data, 0o600)
}

// ReadBytes returns the contents of path.
func (m *Manager) ReadBytes(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (m *Manager) owns(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f == path {
			return true
		}
	}
	return false
}

// ReleaseAll deletes every tracked path, newest first, then the manager's
// directory. Paths that are already gone are not errors. Calling it again is
// a no-op.
func (m *Manager) ReleaseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for i := len(m.files) - 1; i >= 0; i-- {
		if err := os.Remove(m.files[i]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	m.files = nil
	if m.created {
		if err := os.RemoveAll(m.Dir()); err != nil {
			errs = append(errs, err)
		}
		m.created = false
	}
	return errors.Join(errs...)
}
