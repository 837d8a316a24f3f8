package testsupport

import (
	"context"
	"testing"

	"marquee/internal/config"
	"marquee/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedTheatre upserts a theatre for tests using the provided store.
func SeedTheatre(t testing.TB, st *store.Store, id int64, name, slug string) *store.Theatre {
	t.Helper()

	theatre, err := st.UpsertTheatre(context.Background(), store.Theatre{ID: id, Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("store.UpsertTheatre: %v", err)
	}
	return theatre
}

// SeedMovie upserts a movie for tests using the provided store.
func SeedMovie(t testing.TB, st *store.Store, catalogID int64, name, slug string) *store.Movie {
	t.Helper()

	movie, err := st.UpsertMovie(context.Background(), store.Movie{CatalogID: catalogID, Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("store.UpsertMovie: %v", err)
	}
	return movie
}
