// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/finchley/papertrade/internal/store"
)

// New returns a migrated store backed by a uniquely named shared-cache
// in-memory SQLite database, closed when the test ends. The unique name keeps
// parallel tests from seeing each other's data; shared cache keeps pooled
// connections on the same database.
func New(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	s, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := s.AutoMigrate(); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
