package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type jsonFile struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// JSONStore persists the key-value pairs in a single pretty-printed JSON
// file. Every Set rewrites the whole file.
type JSONStore struct {
	path string
	file *jsonFile
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.file = &jsonFile{
		Version: 1,
		Values:  make(map[string]string),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'diario init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.file = &jsonFile{}
	if err := json.Unmarshal(data, s.file); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.file.Values == nil {
		s.file.Values = make(map[string]string)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Get(key string) (string, bool, error) {
	if s.file == nil {
		return "", false, fmt.Errorf("storage not loaded")
	}
	value, ok := s.file.Values[key]
	return value, ok, nil
}

func (s *JSONStore) Set(key, value string) error {
	if s.file == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.file.Values[key] = value
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	if s.file == nil {
		return fmt.Errorf("storage not loaded")
	}
	delete(s.file.Values, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
