package main

import (
	"context"
	"net"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		e = client.Ping(context.Background()).Err()
		return e
	})

	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisStore(t *testing.T) {
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()
	rs := NewRedisCatalogStorage(zap.NewNop(), redis.NewClient(&redis.Options{Addr: addr}))

	books := []Book{
		{ISBN: "9", Title: "Clean Code", Author: "Robert Martin", Year: 2008, Available: true},
		{ISBN: "1", Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Year: 1999, Available: false, Borrower: "Bob"},
		{ISBN: "5", Title: "Refactoring", Author: "Martin Fowler", Year: 2018, Available: true},
	}

	t.Run("Load Fresh Database", func(t *testing.T) {
		// ensures loading before any save provides an empty catalog.
		loaded, err := rs.Load(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("Save And Load", func(t *testing.T) {
		// ensures the whole snapshot round-trips in saved order.
		require.NoError(t, rs.Save(context.Background(), books))
		loaded, err := rs.Load(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, books, loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		// ensures each save fully replaces the previous snapshot.
		require.NoError(t, rs.Save(context.Background(), books[:1]))
		loaded, err := rs.Load(context.Background())
		assert.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "9", loaded[0].ISBN)
	})

	t.Run("Save Empty Catalog", func(t *testing.T) {
		// ensures an empty record set clears the stored snapshot.
		require.NoError(t, rs.Save(context.Background(), []Book{}))
		loaded, err := rs.Load(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
