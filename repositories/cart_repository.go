package repositories

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gift-shop/models"
)

// CartRepository persists the whole cart line list under a fixed key.
// The cart store rewrites it after every mutation.
type CartRepository interface {
	Load() ([]models.CartLine, error)
	Save(lines []models.CartLine) error
}

// cartFile is the serialized shape on disk.
type cartFile struct {
	Items []models.CartLine `json:"items"`
}

// FileCartRepository stores the cart as a JSON document at a fixed
// path, the durable-storage analogue of the browser's cart entry.
type FileCartRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileCartRepository(path string) *FileCartRepository {
	return &FileCartRepository{path: path}
}

func (r *FileCartRepository) Load() ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var f cartFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Items, nil
}

// Save writes via a temp file and rename so a crash mid-write never
// leaves a truncated cart. Last write wins across concurrent sessions,
// same as the browser's storage.
func (r *FileCartRepository) Save(lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), os.ModePerm); err != nil {
		return err
	}

	data, err := json.Marshal(cartFile{Items: lines})
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// MemoryCartRepository keeps lines in memory only. Used in tests and
// when no storage path is configured.
type MemoryCartRepository struct {
	mu    sync.Mutex
	lines []models.CartLine
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{}
}

func (r *MemoryCartRepository) Load() ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]models.CartLine, len(r.lines))
	copy(lines, r.lines)
	return lines, nil
}

func (r *MemoryCartRepository) Save(lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = make([]models.CartLine, len(lines))
	copy(r.lines, lines)
	return nil
}
