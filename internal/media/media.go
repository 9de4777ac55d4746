package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/diarioapp/diario/internal/logger"
)

// Owner manages the audio files behind entry audio handles. The journal
// store only signals when a handle is detached; the Owner performs the
// actual release, keeping policy and mechanism separate.
type Owner struct {
	dir string
}

// NewOwner roots the owner at dir (created on first attach).
func NewOwner(dir string) *Owner {
	return &Owner{dir: dir}
}

func (o *Owner) Dir() string {
	return o.dir
}

// Attach copies a recording into the managed directory and returns the
// handle to store on the entry.
func (o *Owner) Attach(srcPath string) (string, error) {
	if err := os.MkdirAll(o.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open recording: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(srcPath)
	destPath := filepath.Join(o.dir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create managed copy: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to copy recording: %w", err)
	}

	return destPath, nil
}

// Release deletes the file behind a detached handle. Handles outside the
// managed directory (imported paths, leftovers from other hosts) are left
// alone. Missing files are not an error: a release must always succeed.
func (o *Owner) Release(handle string) {
	if handle == "" {
		return
	}
	if !strings.HasPrefix(filepath.Clean(handle), filepath.Clean(o.dir)+string(filepath.Separator)) {
		return
	}
	if err := os.Remove(handle); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to release audio file", "handle", handle, "err", err)
	}
}

// ReleaseAll releases every handle in the list.
func (o *Owner) ReleaseAll(handles []string) {
	for _, handle := range handles {
		o.Release(handle)
	}
}

// Path resolves a handle to a readable file path for the transcription
// collaborator.
func (o *Owner) Path(handle string) (string, error) {
	if handle == "" {
		return "", fmt.Errorf("no audio attached")
	}
	if _, err := os.Stat(handle); err != nil {
		return "", fmt.Errorf("audio file unavailable: %w", err)
	}
	return handle, nil
}
