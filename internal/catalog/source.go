package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Source is a backing byte source for a catalog collection.
type Source interface {
	Read() ([]byte, error)
}

// FileSource reads a collection from a JSON file on disk.
type FileSource struct {
	Path string
}

// Read returns the file contents.
func (s FileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, s.Path)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	return data, nil
}

func (s FileSource) String() string {
	return s.Path
}

// BytesSource serves a collection from memory. A nil BytesSource behaves
// like a missing file.
type BytesSource []byte

// Read returns the bytes.
func (s BytesSource) Read() ([]byte, error) {
	if s == nil {
		return nil, ErrSourceMissing
	}
	return s, nil
}

func (s BytesSource) String() string {
	return "memory"
}
