package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifacts writes generated files to a local directory that is created on demand.
type Artifacts struct {
	dir string
}

// NewArtifacts returns an Artifacts rooted at dir. The directory is not touched until the first Save.
func NewArtifacts(dir string) *Artifacts {
	return &Artifacts{dir: dir}
}

// Dir returns the artifacts directory.
func (a *Artifacts) Dir() string {
	return a.dir
}

// Save writes data to name inside the artifacts directory and returns the file path.
func (a *Artifacts) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	path := a.path(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Path returns the location of an existing artifact. Missing files report os.ErrNotExist.
func (a *Artifacts) Path(name string) (string, error) {
	path := a.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return path, nil
}

// Remove deletes the named artifacts. Files that do not exist are skipped.
func (a *Artifacts) Remove(names ...string) error {
	var errs []error
	for _, name := range names {
		if err := os.Remove(a.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Artifacts) path(name string) string {
	return filepath.Join(a.dir, filepath.Base(name))
}
