package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cheerioo/api/domain/apperrors"
)

// LocalDriver writes blobs under a base directory and serves them from the
// /uploads route. Good enough for development and single-node deployments.
type LocalDriver struct {
	basePath string
}

func NewLocalDriver(basePath string) *LocalDriver {
	return &LocalDriver{basePath: basePath}
}

func (d *LocalDriver) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	path, err := d.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create upload directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create upload file")
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return errors.Wrap(err, "write upload file")
	}
	return nil
}

func (d *LocalDriver) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := d.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("attachment_not_found", "stored file does not exist")
		}
		return nil, errors.Wrap(err, "open upload file")
	}
	return f, nil
}

func (d *LocalDriver) Delete(ctx context.Context, key string) error {
	path, err := d.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove upload file")
	}
	return nil
}

func (d *LocalDriver) URL(key string) string {
	return "/uploads/" + key
}

// resolve joins the key onto the base path and refuses traversal out of it.
func (d *LocalDriver) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if strings.Contains(cleaned, "..") {
		return "", apperrors.Validation("invalid_key", "storage key must not traverse directories")
	}
	return filepath.Join(d.basePath, cleaned), nil
}
