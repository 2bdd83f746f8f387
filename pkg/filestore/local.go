package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStore keeps artifacts in a directory on local disk
type LocalStore struct {
	root     string
	maxBytes int64
	allowed  map[string]struct{}
}

func NewLocalStore(root string, maxBytes int64, allowedExtensions []string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if len(allowedExtensions) == 0 {
		allowedExtensions = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &LocalStore{root: filepath.Clean(root), maxBytes: maxBytes, allowed: allowed}, nil
}

// SanitizeFilename keeps the base name and replaces anything unusual with "_"
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

func (s *LocalStore) Put(ctx context.Context, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := s.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
	}

	name := uuid.NewString() + "_" + SanitizeFilename(filename)
	location := filepath.Join(s.root, name)

	f, err := os.OpenFile(location, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	limit := s.maxBytes
	reader := content
	if limit > 0 {
		reader = io.LimitReader(content, limit+1)
	}
	written, err := io.Copy(f, reader)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && limit > 0 && written > limit {
		err = fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, limit)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(location)
		return "", err
	}
	return filepath.ToSlash(location), nil
}

func (s *LocalStore) Delete(ctx context.Context, location string) (bool, error) {
	if location == "" || IsRemoteURL(location) {
		return false, nil
	}
	path := filepath.Clean(filepath.FromSlash(location))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false, fmt.Errorf("%w: %s", ErrOutsideRoot, location)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *LocalStore) IsRemoteURL(location string) bool {
	return IsRemoteURL(location)
}
