package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkpost/inkpost/internal/storage"
)

// ErrNoStorage is returned when asset storage is not configured. Assets are
// optional; a content repo with no images runs without S3 entirely.
var ErrNoStorage = errors.New("asset storage not configured")

// AssetService syncs the static files posts reference (content/assets) to the
// asset bucket and resolves their URLs.
type AssetService struct {
	store       storage.Storage
	contentPath string
}

func NewAssetService(store storage.Storage, contentPath string) *AssetService {
	return &AssetService{
		store:       store,
		contentPath: contentPath,
	}
}

// URL resolves an asset path to a presigned URL.
func (s *AssetService) URL(path string) (string, error) {
	if s.store == nil {
		return "", ErrNoStorage
	}

	path = strings.TrimPrefix(path, "/")
	if path == "" || strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid asset path %q", path)
	}

	return s.store.PublicURL(path), nil
}

// Push uploads every file under <content>/assets to the bucket, keyed by its
// path relative to the assets dir. Returns the number of files uploaded.
func (s *AssetService) Push(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, ErrNoStorage
	}

	assetsDir := filepath.Join(s.contentPath, "assets")
	uploaded := 0

	err := filepath.WalkDir(assetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == assetsDir {
				return nil // nothing to push
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(assetsDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		err = s.store.Save(ctx, key, f)
		if err != nil {
			return fmt.Errorf("failed to push %s: %w", key, err)
		}

		slog.Info("asset pushed", "key", key)
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	return uploaded, nil
}
