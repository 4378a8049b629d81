package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore persists one tab's keys as a single JSON document on disk, so a
// shell restarted with the same tab id resumes that tab's state.
type FileStore struct {
	dir   string
	tabID string
	mu    sync.Mutex
}

// NewFileStore creates a store for tabID under dir.
func NewFileStore(dir, tabID string) *FileStore {
	return &FileStore{dir: dir, tabID: tabID}
}

// tabDocument is the on-disk format.
type tabDocument struct {
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Values[key] = value
	return s.write(doc)
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Values[key]; !ok {
		return nil
	}
	delete(doc.Values, key)
	if len(doc.Values) == 0 {
		return s.delete()
	}
	return s.write(doc)
}

func (s *FileStore) read() (*tabDocument, error) {
	doc := &tabDocument{Values: make(map[string]string)}
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read tab storage: %w", err)
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse tab storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	return doc, nil
}

func (s *FileStore) write(doc *tabDocument) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tab storage directory: %w", err)
	}

	doc.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tab storage: %w", err)
	}

	path := s.path()

	// Write atomically: temp file + rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp tab storage: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename tab storage: %w", err)
	}

	return nil
}

func (s *FileStore) delete() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete tab storage: %w", err)
	}
	return nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, s.tabID+".json")
}
