// Package store manages the flat directory of generated card PDFs. The
// directory listing is the source of truth; there is no index or manifest.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Suffix is appended to the sanitized submitter name to form the card filename.
const Suffix = "_farewell_card.pdf"

// Store lists, writes and deletes card files inside one managed directory.
type Store struct {
	dir string
}

// New creates the managed directory if needed and returns a Store scoped to it.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute path of the managed directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns all ".pdf" filenames in the managed directory, sorted
// lexicographically. Always a fresh directory read, never cached.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Write persists data under filename, overwriting unconditionally if the
// target already exists. Last write wins; concurrent identical-name
// submissions are not serialized.
func (s *Store) Write(filename string, data []byte) error {
	path, ok := s.resolve(filename)
	if !ok {
		return os.ErrInvalid
	}
	return os.WriteFile(path, data, 0o644)
}

// Delete removes filename from the managed directory. A target that does not
// exist, is not a regular file, or does not resolve inside the directory is a
// silent no-op, not an error.
func (s *Store) Delete(filename string) error {
	path, ok := s.resolve(filename)
	if !ok {
		return nil
	}
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return os.Remove(path)
}

// Path resolves a stored card for serving. The second return is false when
// the filename escapes the managed directory or the file does not exist.
func (s *Store) Path(filename string) (string, bool) {
	path, ok := s.resolve(filename)
	if !ok {
		return "", false
	}
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// resolve joins filename onto the managed directory and rejects anything that
// would land outside it (path traversal defense).
func (s *Store) resolve(filename string) (string, bool) {
	if filename == "" || filename == "." || filename == ".." {
		return "", false
	}
	if filename != filepath.Base(filename) {
		return "", false
	}
	path := filepath.Join(s.dir, filename)
	if filepath.Dir(path) != s.dir {
		return "", false
	}
	return path, true
}

// FileName derives the card filename from the submitter name: spaces and path
// separators become underscores, then the fixed suffix is appended.
func FileName(name string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return r.Replace(name) + Suffix
}
