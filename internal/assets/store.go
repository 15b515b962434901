// Package assets implements a local-directory object store for uploaded
// images and PDFs. Saved objects are served back under /assets/.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded files into a directory and issues retrievable URLs.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates the assets directory if needed. baseURL is the externally
// visible server prefix (no trailing slash).
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the directory objects are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the object and returns its public URL. The stored name is
// uuid-prefixed so repeated uploads of the same filename never collide;
// orphaned objects from abandoned edits are not cleaned up.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	object := uuid.NewString() + "-" + sanitize(filename)
	path := filepath.Join(s.dir, object)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	return s.baseURL + "/assets/" + object, nil
}

// sanitize keeps the base name and replaces path-hostile characters so the
// object name is safe as a single path segment.
func sanitize(filename string) string {
	name := filepath.Base(filename)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
