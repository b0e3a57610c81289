package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore persists the document as YAML. A missing file reads as Defaults.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	return Parse(data)
}

// Save writes through a temp file and rename so readers and the watcher never
// see a partial document.
func (s *FileStore) Save(_ context.Context, doc Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".favorites-settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Parse decodes a YAML document on top of Defaults, so omitted keys keep
// their default value.
func Parse(data []byte) (Document, error) {
	doc := Defaults()
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse settings: %w", err)
	}
	return doc, nil
}
