package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marquee/internal/amc"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/match"
	"marquee/internal/store"
)

// ErrTheatreNotFound reports that no theatre could be resolved for an input.
// Not fatal to a run; the caller decides whether to continue.
var ErrTheatreNotFound = errors.New("theatre not found")

// TheatreFinder is the catalog surface the resolver needs.
type TheatreFinder interface {
	TheatreBySlug(ctx context.Context, slug string) (*amc.Theatre, error)
	SearchTheatres(ctx context.Context, name string) ([]amc.Theatre, error)
}

// Resolver maps free-text names to stable local identities. It owns an
// in-process theatre cache whose lifetime is one invocation; nothing here is
// shared across runs except through the store.
type Resolver struct {
	store            *store.Store
	catalog          TheatreFinder
	logger           *slog.Logger
	titleThreshold   float64
	theatreThreshold float64
	cache            map[string]*store.Theatre
}

// New builds a resolver for a single run.
func New(st *store.Store, catalog TheatreFinder, logger *slog.Logger, matching config.Matching) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		store:            st,
		catalog:          catalog,
		logger:           logger,
		titleThreshold:   matching.TitleThreshold,
		theatreThreshold: matching.TheatreThreshold,
		cache:            make(map[string]*store.Theatre),
	}
}

// ResolveTheatre maps a theatre name or catalog slug to a persisted theatre.
// Lookup order: run cache, store (slug, exact name, fuzzy name, substring
// fallback), then the catalog, persisting whatever the catalog returns.
func (r *Resolver) ResolveTheatre(ctx context.Context, nameOrSlug string) (*store.Theatre, error) {
	input := strings.TrimSpace(nameOrSlug)
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", ErrTheatreNotFound)
	}
	cacheKey := strings.ToLower(input)
	if cached, ok := r.cache[cacheKey]; ok {
		return cached, nil
	}

	if theatre, err := r.lookupStored(ctx, input); err != nil {
		return nil, err
	} else if theatre != nil {
		r.cache[cacheKey] = theatre
		return theatre, nil
	}

	found, err := r.lookupCatalog(ctx, input)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrTheatreNotFound, input)
	}

	theatre, err := r.store.UpsertTheatre(ctx, store.Theatre{
		ID:           found.ID,
		Name:         found.Name,
		Slug:         found.Slug,
		LocationText: found.LocationText(),
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("resolved theatre from catalog",
		logging.String("input", input),
		logging.String("slug", theatre.Slug),
	)
	r.cache[cacheKey] = theatre
	return theatre, nil
}

func (r *Resolver) lookupStored(ctx context.Context, input string) (*store.Theatre, error) {
	if theatre, err := r.store.TheatreBySlug(ctx, strings.ToLower(input)); err != nil {
		return nil, err
	} else if theatre != nil {
		return theatre, nil
	}
	if theatre, err := r.store.TheatreByName(ctx, input); err != nil {
		return nil, err
	} else if theatre != nil {
		return theatre, nil
	}

	theatres, err := r.store.ListTheatres(ctx)
	if err != nil {
		return nil, err
	}
	if len(theatres) == 0 {
		return nil, nil
	}
	names := make([]string, len(theatres))
	for i, theatre := range theatres {
		names[i] = theatre.Name
	}
	if ranked := match.Rank(input, names, r.theatreThreshold); len(ranked) > 0 {
		theatre := theatres[ranked[0].Index]
		return &theatre, nil
	}
	for i, name := range names {
		if match.ContainsFold(name, input) {
			return &theatres[i], nil
		}
	}
	return nil, nil
}

func (r *Resolver) lookupCatalog(ctx context.Context, input string) (*amc.Theatre, error) {
	if looksLikeSlug(input) {
		theatre, err := r.catalog.TheatreBySlug(ctx, strings.ToLower(input))
		if err == nil {
			return theatre, nil
		}
		if !errors.Is(err, amc.ErrNotFound) {
			return nil, err
		}
	}

	results, err := r.catalog.SearchTheatres(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	for i := range results {
		if strings.EqualFold(results[i].Name, input) {
			return &results[i], nil
		}
	}
	return &results[0], nil
}

// looksLikeSlug reports whether an input resembles a catalog slug: a separator
// character and no whitespace.
func looksLikeSlug(input string) bool {
	if strings.ContainsAny(input, " \t") {
		return false
	}
	return strings.ContainsAny(input, "-_")
}

// ResolveTitles fuzzy-matches a watchlist entry against the full catalog
// snapshot and returns every title that clears the threshold, best match
// first. Zero matches is a normal outcome.
func (r *Resolver) ResolveTitles(snapshot []amc.Movie, watchlistName string) []amc.Movie {
	if len(snapshot) == 0 {
		return nil
	}
	names := make([]string, len(snapshot))
	for i, movie := range snapshot {
		names[i] = movie.Name
	}
	ranked := match.Rank(watchlistName, names, r.titleThreshold)
	matched := make([]amc.Movie, 0, len(ranked))
	for _, result := range ranked {
		matched = append(matched, snapshot[result.Index])
	}
	return matched
}
