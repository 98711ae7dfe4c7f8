package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LBooks is the redis list holding the catalog snapshot. A list rather
// than a hash because the catalog order must survive a reload.
const LBooks string = "library:books"

type redisCatalogStorage struct {
	logger *zap.Logger
	client *redis.Client
	key    string
}

// NewRedisCatalogStorage provides a redis-based catalog snapshot storage.
func NewRedisCatalogStorage(logger *zap.Logger, client *redis.Client) CatalogStorage {
	return &redisCatalogStorage{
		logger: logger,
		client: client,
		key:    LBooks,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Save rewrites the whole catalog snapshot with one transactional
// pipeline: the list is dropped and repopulated in catalog order.
func (rs *redisCatalogStorage) Save(ctx context.Context, books []Book) error {
	values := make([]interface{}, 0, len(books))
	for _, book := range books {
		bookBytes, err := json.Marshal(book)
		if err != nil {
			return err
		}
		values = append(values, bookBytes)
	}

	pipe := rs.client.TxPipeline()
	pipe.Del(ctx, rs.key)
	if len(values) > 0 {
		pipe.RPush(ctx, rs.key, values...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Load retrieves the full catalog stored in the redis list.
func (rs *redisCatalogStorage) Load(ctx context.Context) ([]Book, error) {
	items, err := rs.client.LRange(ctx, rs.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, item := range items {
		var book Book
		if err = json.Unmarshal([]byte(item), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// Close shuts down the redis-based catalog storage.
func (rs *redisCatalogStorage) Close() error {
	return rs.client.Close()
}
