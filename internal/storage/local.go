// Package storage keeps generated documents on the local filesystem and serves
// them back under a URL prefix.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventdesk/internal/domain"
)

// Local stores blobs as files in one flat directory
type Local struct {
	dir    string
	prefix string
}

// NewLocal creates dir if needed. URLs are prefix + "/" + name.
func NewLocal(dir, prefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create files directory: %w", err)
	}
	return &Local{dir: dir, prefix: strings.TrimRight(prefix, "/")}, nil
}

// Save writes data under name and returns its URL
func (l *Local) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := l.Path(name)
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return l.prefix + "/" + name, nil
}

// Path maps name to its file, rejecting anything that is not a bare file name
func (l *Local) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", domain.NewValidation("invalid file name %q", name)
	}
	return filepath.Join(l.dir, name), nil
}

// Open returns the stored file for reading
func (l *Local) Open(name string) (*os.File, error) {
	path, err := l.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewNotFound("file", name)
		}
		return nil, err
	}
	return f, nil
}
