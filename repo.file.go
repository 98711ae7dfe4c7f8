package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// snapshotVersion tags the on-disk format so a future layout
// change can be detected instead of silently misread.
const snapshotVersion = 1

// snapshotFile is the on-disk envelope holding the whole catalog.
type snapshotFile struct {
	Version int    `json:"version"`
	Books   []Book `json:"books"`
}

type fileCatalogStorage struct {
	logger *zap.Logger
	path   string
}

// NewFileCatalogStorage provides a catalog storage backed by a single
// versioned json snapshot file.
func NewFileCatalogStorage(logger *zap.Logger, path string) CatalogStorage {
	return &fileCatalogStorage{
		logger: logger,
		path:   path,
	}
}

// Load reads the whole catalog from the snapshot file. A missing file
// means a fresh catalog. A snapshot which cannot be decoded or carries
// an unsupported version is reported as a warning and skipped, so a
// corrupt file never prevents the application from starting.
func (fs *fileCatalogStorage) Load(_ context.Context) ([]Book, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		fs.logger.Info("storage: no existing snapshot file. starting fresh catalog", zap.String("path", fs.path))
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read the snapshot file: %w", err)
	}

	var snap snapshotFile
	if err = json.Unmarshal(data, &snap); err != nil {
		fs.logger.Warn("storage: snapshot file is not parsable. starting fresh catalog",
			zap.String("path", fs.path), zap.Error(err))
		return []Book{}, nil
	}
	if snap.Version != snapshotVersion {
		fs.logger.Warn("storage: snapshot file version is not supported. starting fresh catalog",
			zap.String("path", fs.path), zap.Int("version", snap.Version))
		return []Book{}, nil
	}
	if snap.Books == nil {
		snap.Books = []Book{}
	}
	return snap.Books, nil
}

// Save rewrites the whole snapshot file. The content goes to a temporary
// file in the same directory first and is renamed over the target, so a
// crash mid-write cannot corrupt the previously valid snapshot.
func (fs *fileCatalogStorage) Save(_ context.Context, books []Book) error {
	data, err := json.MarshalIndent(snapshotFile{Version: snapshotVersion, Books: books}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode the snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), filepath.Base(fs.path)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create a temporary snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write the temporary snapshot file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close the temporary snapshot file: %w", err)
	}
	if err = os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("failed to replace the snapshot file: %w", err)
	}
	return nil
}

// Close implements CatalogStorage. No handle stays open between calls.
func (fs *fileCatalogStorage) Close() error {
	return nil
}
