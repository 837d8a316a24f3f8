package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"marquee/internal/amc"
	"marquee/internal/commands"
	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/messaging"
	"marquee/internal/notify"
	"marquee/internal/resolve"
	"marquee/internal/store"
)

// ErrAlreadyRunning reports that another invocation holds the run lock.
var ErrAlreadyRunning = errors.New("another marquee run is in progress")

// Catalog is the catalog surface one run needs.
type Catalog interface {
	resolve.TheatreFinder
	ListMovies(ctx context.Context) ([]amc.Movie, error)
	Showtimes(ctx context.Context, movieID, theatreID int64) ([]amc.Showtime, error)
}

// Checker executes one poll-and-notify cycle. All cross-run state lives in the
// store; a Checker itself holds nothing that outlives the invocation.
type Checker struct {
	cfg       *config.Config
	store     *store.Store
	catalog   Catalog
	messenger messaging.Messenger
	logger    *slog.Logger
	now       func() time.Time
	sendDelay time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSendDelay overrides the pause between outbound batch messages.
func WithSendDelay(delay time.Duration) Option {
	return func(c *Checker) {
		if delay >= 0 {
			c.sendDelay = delay
		}
	}
}

// New builds a checker for one invocation.
func New(cfg *config.Config, st *store.Store, catalog Catalog, messenger messaging.Messenger, logger *slog.Logger, opts ...Option) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	checker := &Checker{
		cfg:       cfg,
		store:     st,
		catalog:   catalog,
		messenger: messenger,
		logger:    logger,
		now:       time.Now,
		sendDelay: time.Duration(cfg.Notifications.SendDelayMillis) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(checker)
	}
	return checker
}

// Run executes one full cycle: resolve the configured theatre, match the
// watchlist against a single catalog snapshot, upsert fetched showtimes,
// notify about the new ones, then process inbound commands. The external
// scheduler is assumed not to overlap invocations; the advisory run lock
// turns an accidental overlap into a clean early exit.
func (c *Checker) Run(ctx context.Context) error {
	lock := flock.New(c.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	logger := c.logger.With(logging.String("run_id", runID))
	logger.Info("run started")
	c.logRun(ctx, runID, "info", "run started", "", "")

	newItems, checkErr := c.checkShowtimes(ctx, runID, logger)

	if len(newItems) > 0 {
		if err := c.sendBatches(ctx, runID, logger, newItems); err != nil {
			return err
		}
	}

	if err := c.processCommands(ctx, logger); err != nil {
		return err
	}

	if checkErr != nil {
		return checkErr
	}
	logger.Info("run finished", logging.Int("new_showtimes", len(newItems)))
	c.logRun(ctx, runID, "info", fmt.Sprintf("run finished with %d new showtimes", len(newItems)), "", "")
	return nil
}

// checkShowtimes performs the fetch/match/dedup phase. Upstream rate-limit and
// auth failures abort the phase and surface as the returned error; not-found
// conditions are logged and skipped.
func (c *Checker) checkShowtimes(ctx context.Context, runID string, logger *slog.Logger) ([]notify.NewShowtime, error) {
	watchlist, err := c.store.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	if len(watchlist) == 0 {
		logger.Info("watchlist is empty, nothing to check")
		return nil, nil
	}

	resolver := resolve.New(c.store, c.catalog, logger, c.cfg.Matching)
	theatre, err := resolver.ResolveTheatre(ctx, c.cfg.Catalog.Theatre)
	if err != nil {
		if errors.Is(err, resolve.ErrTheatreNotFound) {
			logger.Warn("configured theatre did not resolve", logging.String("theatre", c.cfg.Catalog.Theatre), logging.Error(err))
			c.logRun(ctx, runID, "warn", "configured theatre did not resolve", "", c.cfg.Catalog.Theatre)
			return nil, nil
		}
		return nil, fmt.Errorf("resolve theatre: %w", err)
	}

	// One snapshot per run bounds catalog calls regardless of watchlist size.
	snapshot, err := c.catalog.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog snapshot: %w", err)
	}

	var newItems []notify.NewShowtime
	for _, entry := range watchlist {
		matched := resolver.ResolveTitles(snapshot, entry.MovieName)
		if len(matched) == 0 {
			logger.Info("no catalog titles matched", logging.String("movie", entry.MovieName))
			c.logRun(ctx, runID, "info", "no catalog titles matched", entry.MovieName, theatre.Name)
			continue
		}
		for _, catalogMovie := range matched {
			items, err := c.checkMovie(ctx, runID, logger, theatre, catalogMovie)
			if err != nil {
				if errors.Is(err, amc.ErrRateLimited) || errors.Is(err, amc.ErrUnauthorized) {
					return newItems, fmt.Errorf("check %q: %w", catalogMovie.Name, err)
				}
				// Store or fetch trouble for one title must not sink the run.
				logger.Error("check movie failed", logging.String("movie", catalogMovie.Name), logging.Error(err))
				c.logRun(ctx, runID, "error", err.Error(), catalogMovie.Name, theatre.Name)
				continue
			}
			newItems = append(newItems, items...)
		}
	}
	return newItems, nil
}

func (c *Checker) checkMovie(ctx context.Context, runID string, logger *slog.Logger, theatre *store.Theatre, catalogMovie amc.Movie) ([]notify.NewShowtime, error) {
	movie, err := c.store.UpsertMovie(ctx, store.Movie{
		CatalogID:      catalogMovie.ID,
		Name:           catalogMovie.Name,
		Slug:           catalogMovie.Slug,
		ReleaseDate:    catalogMovie.ReleaseDateUTC,
		Rating:         catalogMovie.MPAARating,
		RunTimeMinutes: catalogMovie.RunTime,
		Genre:          catalogMovie.Genre,
	})
	if err != nil {
		return nil, err
	}

	showtimes, err := c.catalog.Showtimes(ctx, catalogMovie.ID, theatre.ID)
	if err != nil {
		return nil, err
	}
	if err := c.store.TouchMovieChecked(ctx, movie.ID, c.now()); err != nil {
		logger.Warn("touch movie checked", logging.String("movie", movie.Name), logging.Error(err))
	}

	now := c.now()
	var newItems []notify.NewShowtime
	for _, showing := range showtimes {
		startUTC, err := showing.StartUTC()
		if err != nil {
			logger.Warn("skipping malformed showtime", logging.Int64("showtime_id", showing.ID), logging.Error(err))
			continue
		}
		// Expired showings never reach the dedup engine.
		if startUTC.Before(now) {
			continue
		}
		startLocal, err := showing.StartLocal()
		if err != nil {
			startLocal = startUTC
		}

		attributes := make([]store.Attribute, 0, len(showing.Attributes))
		for _, attribute := range showing.Attributes {
			attributes = append(attributes, store.Attribute{Code: attribute.Code, Name: attribute.Name})
		}

		result, err := c.store.UpsertShowtime(ctx, store.ShowtimeCandidate{
			MovieID:       movie.ID,
			TheatreID:     theatre.ID,
			StartUTC:      startUTC,
			StartLocal:    startLocal,
			Auditorium:    showing.Auditorium,
			SoldOut:       showing.IsSoldOut,
			AlmostSoldOut: showing.IsAlmostSoldOut,
			Attributes:    attributes,
			TicketURL:     showing.PurchaseURL,
		})
		if err != nil {
			return nil, err
		}
		if !result.IsNew {
			continue
		}

		row, err := c.store.ShowtimeByID(ctx, result.ID)
		if err != nil {
			return nil, err
		}
		newItems = append(newItems, notify.NewShowtime{
			Showtime:    *row,
			MovieName:   movie.Name,
			TheatreName: theatre.Name,
		})
		c.logRun(ctx, runID, "info", fmt.Sprintf("new showtime %s", startLocal.Format("2006-01-02 15:04")), movie.Name, theatre.Name)
	}
	return newItems, nil
}

// sendBatches marks every new showing notified before attempting delivery. A
// send failure after that point loses the notification permanently; duplicate
// spam is considered worse than a missed alert.
func (c *Checker) sendBatches(ctx context.Context, runID string, logger *slog.Logger, newItems []notify.NewShowtime) error {
	ids := make([]int64, len(newItems))
	for i, item := range newItems {
		ids[i] = item.Showtime.ID
	}
	if err := c.store.MarkNotified(ctx, ids...); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}

	batches := notify.BuildBatches(newItems)
	for i, batch := range batches {
		if i > 0 {
			if err := sleepCtx(ctx, c.sendDelay); err != nil {
				return err
			}
		}
		if err := c.messenger.SendMessage(ctx, batch.Text); err != nil {
			logger.Error("send notification", logging.String("movie", batch.MovieName), logging.Error(err))
			c.logRun(ctx, runID, "error", "send notification failed: "+err.Error(), batch.MovieName, "")
			return fmt.Errorf("send notification for %q: %w", batch.MovieName, err)
		}
		logger.Info("notification sent", logging.String("movie", batch.MovieName))
	}
	return nil
}

func (c *Checker) processCommands(ctx context.Context, logger *slog.Logger) error {
	cursor, err := c.store.CommandCursor(ctx)
	if err != nil {
		return err
	}
	inbound, err := c.messenger.PollInboundSince(ctx, cursor)
	if err != nil {
		return fmt.Errorf("poll inbound commands: %w", err)
	}
	if len(inbound) == 0 {
		return nil
	}
	logger.Info("processing inbound commands", logging.Int("count", len(inbound)))
	return commands.New(c.store, c.messenger, logger).Process(ctx, inbound)
}

// logRun appends a diagnostic record; run-log trouble never affects the run.
func (c *Checker) logRun(ctx context.Context, runID, level, message, movie, theatre string) {
	entry := store.RunLogEntry{
		RunID:    runID,
		LoggedAt: c.now(),
		Level:    level,
		Message:  message,
		Movie:    movie,
		Theatre:  theatre,
	}
	if err := c.store.AppendRunLog(ctx, entry); err != nil {
		c.logger.Warn("append run log", logging.Error(err))
	}
}

func sleepCtx(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
