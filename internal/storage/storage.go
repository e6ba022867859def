package storage

import (
	"io"
)

// Storage writes bordered images into a single output directory.
type Storage struct {
	BaseDir string
}

// New creates a new Storage instance rooted at the output directory.
func New(baseDir string) *Storage {
	return &Storage{BaseDir: baseDir}
}

// Path returns where the output for srcPath with extension ext is written.
func (s *Storage) Path(srcPath, ext string) string {
	return OutputPath(s.BaseDir, srcPath, ext)
}

// Save atomically writes data as the output for srcPath, replacing any
// previous file of the same name. It returns the final path.
func (s *Storage) Save(srcPath, ext string, data io.Reader) (string, error) {
	path := s.Path(srcPath, ext)
	if err := AtomicWrite(path, data); err != nil {
		return "", err
	}
	return path, nil
}
