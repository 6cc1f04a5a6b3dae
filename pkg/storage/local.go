package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// LocalScheme is the scheme the Local provider is usually registered under.
const LocalScheme = "file"

// Local stores files on disk. With a Root, URL paths are resolved inside it
// and cannot leave it; without one they are used as is.
type Local struct {
	Root string
}

func (l *Local) path(u *url.URL) (string, error) {
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return "", errors.New("url has no path")
	}

	if l.Root == "" {
		return filepath.FromSlash(p), nil
	}

	// Cleaning against "/" drops any leading "..", keeping the path in Root.
	return filepath.Join(l.Root, filepath.FromSlash(path.Clean("/"+p))), nil
}

func (l *Local) Delete(_ context.Context, u *url.URL) error {
	p, err := l.path(u)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (l *Local) WriteCloser(_ context.Context, u *url.URL) (io.WriteCloser, error) {
	p, err := l.path(u)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create directory: %w", err)
	}
	return os.Create(p)
}

func (l *Local) ReadCloser(_ context.Context, u *url.URL) (io.ReadCloser, error) {
	p, err := l.path(u)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}
