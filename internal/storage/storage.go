// Package storage removes archived link assets. Archives and previews live in
// one folder per collection, either under a local directory or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/tools/filesystem"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/services"
)

// ErrForbiddenPath is returned for keys that are absolute or climb out of the asset root
var ErrForbiddenPath = errors.New("forbidden path")

// ArchivePath is the folder holding a collection's archived documents
func ArchivePath(collectionID int64) string {
	return "archives/" + strconv.FormatInt(collectionID, 10)
}

// PreviewPath is the folder holding a collection's preview images
func PreviewPath(collectionID int64) string {
	return "archives/preview/" + strconv.FormatInt(collectionID, 10)
}

// Opener opens a filesystem handle. Handles are not shared between calls.
type Opener func() (*filesystem.System, error)

// Store implements services.AssetStore on top of a pocketbase filesystem
type Store struct {
	open   Opener
	logger *slog.Logger
}

// NewStore creates an asset store that opens a filesystem handle per operation
func NewStore(open Opener, logger *slog.Logger) *Store {
	return &Store{open: open, logger: logger}
}

// NewLocalStore stores assets under a local directory
func NewLocalStore(dir string, logger *slog.Logger) *Store {
	return NewStore(func() (*filesystem.System, error) {
		return filesystem.NewLocal(dir)
	}, logger)
}

// NewS3Store stores assets in an S3-compatible bucket
func NewS3Store(bucket, region, endpoint, accessKey, secretKey string, forcePathStyle bool, logger *slog.Logger) *Store {
	return NewStore(func() (*filesystem.System, error) {
		return filesystem.NewS3(bucket, region, endpoint, accessKey, secretKey, forcePathStyle)
	}, logger)
}

// NewFromConfig picks the bucket when one is configured, the local folder otherwise
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Store {
	if cfg.UsesObjectStorage() {
		logger.Info("asset storage", "backend", "s3", "bucket", cfg.SpacesBucket, "endpoint", cfg.SpacesEndpoint)
		return NewS3Store(cfg.SpacesBucket, cfg.SpacesRegion, cfg.SpacesEndpoint,
			cfg.SpacesKey, cfg.SpacesSecret, cfg.SpacesForcePathStyle, logger)
	}
	logger.Info("asset storage", "backend", "local", "folder", cfg.StorageFolder)
	return NewLocalStore(cfg.StorageFolder, logger)
}

// RemoveFolder deletes every object under filePath. A missing folder is not an error.
func (s *Store) RemoveFolder(ctx context.Context, filePath string) error {
	key, err := cleanKey(filePath)
	if err != nil {
		return fmt.Errorf("remove folder %q: %w", filePath, err)
	}

	fsys, err := s.open()
	if err != nil {
		return fmt.Errorf("open asset storage: %w", err)
	}
	defer fsys.Close()

	fsys.SetContext(ctx)

	if errs := fsys.DeletePrefix(key + "/"); len(errs) > 0 {
		return fmt.Errorf("remove folder %q: %w", key, errors.Join(errs...))
	}

	s.logger.Debug("asset folder removed", "path", key)
	return nil
}

// cleanKey normalises a slash-separated key relative to the asset root
func cleanKey(filePath string) (string, error) {
	if filePath == "" || strings.HasPrefix(filePath, "/") || strings.Contains(filePath, "\\") {
		return "", ErrForbiddenPath
	}
	for _, seg := range strings.Split(filePath, "/") {
		if seg == ".." {
			return "", ErrForbiddenPath
		}
	}

	key := strings.TrimSuffix(path.Clean(filePath), "/")
	if key == "." || key == "" {
		return "", ErrForbiddenPath
	}
	return key, nil
}

var _ services.AssetStore = (*Store)(nil)
