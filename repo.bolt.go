package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltCatalogStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltCatalogStorage provides a bolt-based catalog snapshot storage.
func NewBoltCatalogStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) CatalogStorage {
	return &boltCatalogStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based catalog storage.
func (bs *boltCatalogStorage) Close() error {
	return bs.client.Close()
}

// Save rewrites the whole catalog inside a single read-write transaction.
// Records are keyed by their zero padded position so that bucket cursor
// order matches catalog insertion order on reload.
func (bs *boltCatalogStorage) Save(_ context.Context, books []Book) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		name := []byte(bs.config.BucketName)
		if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
			return fmt.Errorf("failed to drop %s bucket: %v", bs.config.BucketName, err)
		}
		bucket, err := tx.CreateBucket(name)
		if err != nil {
			return fmt.Errorf("failed to recreate %s bucket: %v", bs.config.BucketName, err)
		}
		for i, book := range books {
			bookBytes, errM := json.Marshal(book)
			if errM != nil {
				return errM
			}
			if err = bucket.Put([]byte(fmt.Sprintf("%08d", i)), bookBytes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load retrieves the full catalog stored in the bolt database.
func (bs *boltCatalogStorage) Load(_ context.Context) ([]Book, error) {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	books := []Book{}
	bucket := tx.Bucket([]byte(bs.config.BucketName))
	if bucket == nil {
		return books, nil
	}

	// Walk the bucket with a cursor so records come back in saved order.
	c := bucket.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			bs.logger.Warn("storage: skipping record which cannot be decoded",
				zap.ByteString("key", k), zap.Error(err))
			continue
		}
		books = append(books, book)
	}
	return books, nil
}
