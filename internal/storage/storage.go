// Package storage keeps uploaded drawings and rendered reports.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store is a flat key/value object store. Keys use forward slashes.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// UploadKey is where the original upload of a job is kept.
func UploadKey(jobID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		name = "drawing"
	}
	return path.Join("jobs", jobID, "upload", name)
}

// ReportKey is where a job's report rendered with the given extension is kept.
func ReportKey(jobID, ext string) string {
	return path.Join("jobs", jobID, "report."+strings.TrimPrefix(ext, "."))
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	k := path.Clean("/" + key)[1:]
	if k == "" || k != strings.TrimPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return k, nil
}
