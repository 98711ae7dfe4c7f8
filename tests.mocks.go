package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockCatalogStorage struct {
	LoadFunc  func(ctx context.Context) ([]Book, error)
	SaveFunc  func(ctx context.Context, books []Book) error
	CloseFunc func() error
}

// Load mocks the behavior of reading the whole snapshot.
func (m *MockCatalogStorage) Load(ctx context.Context) ([]Book, error) {
	return m.LoadFunc(ctx)
}

// Save mocks the behavior of rewriting the whole snapshot.
func (m *MockCatalogStorage) Save(ctx context.Context, books []Book) error {
	return m.SaveFunc(ctx, books)
}

// Close mocks the release of the storage backend.
func (m *MockCatalogStorage) Close() error {
	return m.CloseFunc()
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
