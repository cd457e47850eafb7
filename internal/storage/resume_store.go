package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// UploadFolder is the directory, relative to the storage root, that holds résumés.
const UploadFolder = "uploads"

// ErrInvalidFilename is returned when nothing usable remains after sanitizing.
var ErrInvalidFilename = errors.New("invalid filename")

// ResumeStore saves and opens uploaded résumés.
type ResumeStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)
}

type fsResumeStore struct {
	fs afero.Fs
}

// NewResumeStore stores files on fs. Paths returned by Save are relative to its root.
func NewResumeStore(fs afero.Fs) ResumeStore {
	return &fsResumeStore{fs: fs}
}

// NewDiskResumeStore roots a store at dir on the local filesystem.
func NewDiskResumeStore(dir string) ResumeStore {
	return NewResumeStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// IsPDF reports whether filename carries a pdf extension, case-insensitively.
func IsPDF(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return strings.ToLower(filename[idx+1:]) == "pdf"
}

// Save writes content under UploadFolder using a sanitized filename. An
// existing file with the same name is overwritten.
func (s *fsResumeStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	name := SecureFilename(filename)
	if name == "" {
		return "", ErrInvalidFilename
	}
	if err := s.fs.MkdirAll(UploadFolder, 0o755); err != nil {
		return "", err
	}
	stored := path.Join(UploadFolder, name)
	if err := afero.WriteReader(s.fs, filepath.FromSlash(stored), content); err != nil {
		return "", err
	}
	return stored, nil
}

func (s *fsResumeStore) Open(_ context.Context, storedPath string) (io.ReadCloser, error) {
	clean := path.Clean("/" + storedPath)
	return s.fs.Open(filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

// SecureFilename reduces a client supplied name to a safe single path element.
func SecureFilename(filename string) string {
	filename = strings.ReplaceAll(filename, `\`, "/")
	if idx := strings.LastIndex(filename, "/"); idx >= 0 {
		filename = filename[idx+1:]
	}

	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(filename), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
