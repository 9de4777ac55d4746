package share

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink delivers export payloads: (content, filename, mimeType) -> delivered.
type Sink interface {
	Deliver(content, filename, mimeType string) (bool, error)
}

// DirSink drops payloads into a delivery directory, the CLI counterpart of
// a download/share sheet.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (s *DirSink) Deliver(content, filename, _ string) (bool, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return false, fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return false, fmt.Errorf("failed to write export file: %w", err)
	}
	return true, nil
}

// Path returns where a delivered file ends up.
func (s *DirSink) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}
