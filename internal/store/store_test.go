package store

import (
	"path/filepath"
	"testing"
)

// newTestStore opens a store on a throwaway file. A file (not :memory:) keeps
// database/sql's connection pool pointed at one database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func mustUpsertNode(t *testing.T, st *Store, n Node) {
	t.Helper()
	if err := st.UpsertNode(n); err != nil {
		t.Fatal(err)
	}
}

func mustUpsertEdge(t *testing.T, st *Store, e Edge) {
	t.Helper()
	if err := st.UpsertEdge(e); err != nil {
		t.Fatal(err)
	}
}
