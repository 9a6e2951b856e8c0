package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"omekan/internal/domain"
)

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage writes objects below root and serves them under baseURL.
// It is used when no bucket is configured.
func NewLocalStorage(root, baseURL string) domain.ObjectStorage {
	return &localStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *localStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return "", fmt.Errorf("put object: empty key")
	}
	dst := filepath.Join(l.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return l.baseURL + "/" + clean, nil
}
