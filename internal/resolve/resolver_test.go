package resolve_test

import (
	"context"
	"errors"
	"testing"

	"marquee/internal/amc"
	"marquee/internal/config"
	"marquee/internal/resolve"
	"marquee/internal/testsupport"
)

type fakeCatalog struct {
	theatres    map[string]amc.Theatre
	searchHits  []amc.Theatre
	slugCalls   int
	searchCalls int
}

func (f *fakeCatalog) TheatreBySlug(ctx context.Context, slug string) (*amc.Theatre, error) {
	f.slugCalls++
	if theatre, ok := f.theatres[slug]; ok {
		return &theatre, nil
	}
	return nil, amc.ErrNotFound
}

func (f *fakeCatalog) SearchTheatres(ctx context.Context, name string) ([]amc.Theatre, error) {
	f.searchCalls++
	return f.searchHits, nil
}

func defaultMatching() config.Matching {
	cfg := config.Default()
	return cfg.Matching
}

func TestResolveTheatrePrefersStoredRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedTheatre(t, st, 610, "AMC Empire 25", "amc-empire-25")

	catalog := &fakeCatalog{}
	resolver := resolve.New(st, catalog, nil, defaultMatching())

	theatre, err := resolver.ResolveTheatre(context.Background(), "AMC Empire 25")
	if err != nil {
		t.Fatalf("ResolveTheatre: %v", err)
	}
	if theatre.ID != 610 {
		t.Fatalf("unexpected theatre: %#v", theatre)
	}
	if catalog.slugCalls != 0 || catalog.searchCalls != 0 {
		t.Fatal("stored theatre should not trigger catalog calls")
	}
}

func TestResolveTheatreSubstringFallback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedTheatre(t, st, 610, "AMC Empire 25", "amc-empire-25")

	// A strict threshold forces the non-fuzzy containment fallback.
	matching := defaultMatching()
	matching.TheatreThreshold = 0.2
	resolver := resolve.New(st, &fakeCatalog{}, nil, matching)

	theatre, err := resolver.ResolveTheatre(context.Background(), "Empire")
	if err != nil {
		t.Fatalf("ResolveTheatre: %v", err)
	}
	if theatre.Slug != "amc-empire-25" {
		t.Fatalf("expected substring fallback to match, got %#v", theatre)
	}
}

func TestResolveTheatreSlugShapedInputHitsCatalogDirectly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	catalog := &fakeCatalog{theatres: map[string]amc.Theatre{
		"amc-empire-25": {ID: 610, Name: "AMC Empire 25", Slug: "amc-empire-25"},
	}}
	resolver := resolve.New(st, catalog, nil, defaultMatching())

	theatre, err := resolver.ResolveTheatre(context.Background(), "AMC-Empire-25")
	if err != nil {
		t.Fatalf("ResolveTheatre: %v", err)
	}
	if catalog.slugCalls != 1 || catalog.searchCalls != 0 {
		t.Fatalf("expected direct slug lookup, got slug=%d search=%d", catalog.slugCalls, catalog.searchCalls)
	}

	// The result is persisted for next time.
	stored, err := st.TheatreBySlug(context.Background(), "amc-empire-25")
	if err != nil {
		t.Fatalf("TheatreBySlug: %v", err)
	}
	if stored == nil || stored.ID != theatre.ID {
		t.Fatalf("expected persisted theatre, got %#v", stored)
	}
}

func TestResolveTheatreSearchPrefersExactName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	catalog := &fakeCatalog{searchHits: []amc.Theatre{
		{ID: 1, Name: "AMC Empire 25 North", Slug: "amc-empire-25-north"},
		{ID: 2, Name: "AMC Empire 25", Slug: "amc-empire-25"},
	}}
	resolver := resolve.New(st, catalog, nil, defaultMatching())

	theatre, err := resolver.ResolveTheatre(context.Background(), "amc empire 25")
	if err != nil {
		t.Fatalf("ResolveTheatre: %v", err)
	}
	if theatre.ID != 2 {
		t.Fatalf("expected exact-name search result, got %#v", theatre)
	}
}

func TestResolveTheatreCachesWithinRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	catalog := &fakeCatalog{searchHits: []amc.Theatre{{ID: 610, Name: "AMC Empire 25", Slug: "amc-empire-25"}}}
	resolver := resolve.New(st, catalog, nil, defaultMatching())

	for i := 0; i < 3; i++ {
		if _, err := resolver.ResolveTheatre(context.Background(), "empire midtown"); err != nil {
			t.Fatalf("ResolveTheatre %d: %v", i, err)
		}
	}
	if catalog.searchCalls != 1 {
		t.Fatalf("expected one catalog search, got %d", catalog.searchCalls)
	}
}

func TestResolveTheatreNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	resolver := resolve.New(st, &fakeCatalog{}, nil, defaultMatching())
	_, err := resolver.ResolveTheatre(context.Background(), "nowhere")
	if !errors.Is(err, resolve.ErrTheatreNotFound) {
		t.Fatalf("expected ErrTheatreNotFound, got %v", err)
	}
}

func TestResolveTitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	resolver := resolve.New(st, &fakeCatalog{}, nil, defaultMatching())

	snapshot := []amc.Movie{
		{ID: 1, Name: "Minions", Slug: "minions"},
		{ID: 2, Name: "Tron: Ares", Slug: "tron-ares"},
		{ID: 3, Name: "Tron: Ares Special Edition", Slug: "tron-ares-special-edition"},
	}

	matched := resolver.ResolveTitles(snapshot, "Tron: Ares")
	if len(matched) != 2 {
		t.Fatalf("expected 2 matches, got %d: %#v", len(matched), matched)
	}
	if matched[0].ID != 2 {
		t.Fatalf("expected exact title first, got %#v", matched[0])
	}

	if matched := resolver.ResolveTitles(snapshot, "Completely Unrelated Documentary"); len(matched) != 0 {
		t.Fatalf("expected no matches, got %#v", matched)
	}
	if matched := resolver.ResolveTitles(nil, "Tron: Ares"); matched != nil {
		t.Fatalf("expected nil for empty snapshot, got %#v", matched)
	}
}
