// Package filestore stores sample artifacts. Remote URLs are references, not
// files, and are never deleted locally.
package filestore

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

var (
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrExtensionNotAllowed = errors.New("file type is not allowed")
	ErrOutsideRoot         = errors.New("location is outside the upload directory")
)

// DefaultAllowedExtensions is the upload allow-list
var DefaultAllowedExtensions = []string{"jpg", "jpeg", "png", "gif", "pdf", "doc", "docx", "txt", "zip", "rar", "xls", "xlsx"}

// FileStore is the storage collaborator used by the coordinator
type FileStore interface {
	// Put stores content under a unique name derived from filename and returns its location
	Put(ctx context.Context, filename string, content io.Reader) (string, error)
	// Delete removes a stored artifact; false when there was nothing to remove
	Delete(ctx context.Context, location string) (bool, error)
	IsRemoteURL(location string) bool
}

// IsRemoteURL reports whether location is an absolute http(s) URL
func IsRemoteURL(location string) bool {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// IsPolicyError reports whether err is a rejection of the upload itself rather than an I/O failure
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrExtensionNotAllowed)
}
