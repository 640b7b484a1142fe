package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore persists uploaded files (profile photos, study materials,
// timetable images) on disk under a base directory. Stored references are
// paths relative to the base dir and are what gets persisted on documents.
type MediaStore struct {
	baseDir string
	maxSize int64
}

// NewMediaStore ensures the base directory exists and returns a handle.
func NewMediaStore(baseDir string, maxSize int64) (*MediaStore, error) {
	if baseDir == "" {
		baseDir = "./media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &MediaStore{baseDir: baseDir, maxSize: maxSize}, nil
}

// SaveUpload stores a multipart file under the given folder and returns the
// stored reference. The original filename is replaced with a random one; only
// the extension survives.
func (s *MediaStore) SaveUpload(folder string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", fmt.Errorf("no file provided")
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", s.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	ref := filepath.Join(folder, uuid.NewString()+ext)

	path := s.resolve(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare media directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close() //nolint:errcheck

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return filepath.ToSlash(ref), nil
}

// Open returns a read-only handle for the stored file.
func (s *MediaStore) Open(ref string) (*os.File, error) {
	file, err := os.Open(s.resolve(ref))
	if err != nil {
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present. Missing files are not an error;
// mutation flows call this for superseded references.
func (s *MediaStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	if err := os.Remove(s.resolve(ref)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

// Path exposes the underlying absolute path.
func (s *MediaStore) Path(ref string) string {
	return s.resolve(ref)
}

// BaseDir returns the storage root, used to mount a static file route.
func (s *MediaStore) BaseDir() string {
	return s.baseDir
}

func (s *MediaStore) resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(ref))
}
