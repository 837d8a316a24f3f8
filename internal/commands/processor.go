package commands

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"marquee/internal/logging"
	"marquee/internal/messaging"
	"marquee/internal/store"
)

const helpText = "Available commands:\n" +
	"/add &lt;movie&gt; — start watching a movie\n" +
	"/remove &lt;movie&gt; — stop watching a movie\n" +
	"/list — show the watchlist\n" +
	"/status — show store counts\n" +
	"/help — show this message"

// Processor consumes inbound chat commands and mutates the watchlist. The
// persisted cursor advances to every inbound identifier, parsed or not, so
// malformed messages are never reprocessed.
type Processor struct {
	store     *store.Store
	messenger messaging.Messenger
	logger    *slog.Logger
}

// New builds a command processor.
func New(st *store.Store, messenger messaging.Messenger, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{store: st, messenger: messenger, logger: logger}
}

// Process handles one poll's worth of inbound messages in order. Each
// recognized command produces exactly one reply, sent before the next command
// is considered.
func (p *Processor) Process(ctx context.Context, inbound []messaging.Inbound) error {
	for _, item := range inbound {
		if err := p.store.SetCommandCursor(ctx, item.ID); err != nil {
			// Cursor persistence is auxiliary; worst case the command is seen twice.
			p.logger.Warn("persist command cursor", logging.Int64("update_id", item.ID), logging.Error(err))
		}

		reply := p.handle(ctx, item.Text)
		if reply == "" {
			continue
		}
		if err := p.messenger.SendMessage(ctx, reply); err != nil {
			return fmt.Errorf("send command reply: %w", err)
		}
	}
	return nil
}

func (p *Processor) handle(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}

	token, argument, _ := strings.Cut(text[1:], " ")
	// Group chats suffix commands with the bot name, e.g. /add@marqueebot.
	token, _, _ = strings.Cut(token, "@")
	argument = strings.TrimSpace(argument)

	switch strings.ToLower(token) {
	case "add":
		return p.handleAdd(ctx, argument)
	case "remove":
		return p.handleRemove(ctx, argument)
	case "list":
		return p.handleList(ctx)
	case "status":
		return p.handleStatus(ctx)
	case "help":
		return helpText
	default:
		return "Unknown command.\n" + helpText
	}
}

func (p *Processor) handleAdd(ctx context.Context, name string) string {
	if name == "" {
		return "Usage: /add &lt;movie name&gt;"
	}
	added, err := p.store.AddWatchlistEntry(ctx, name)
	if err != nil {
		p.logger.Warn("add watchlist entry", logging.String("movie", name), logging.Error(err))
		return "Could not update the watchlist, try again later."
	}
	if !added {
		return fmt.Sprintf("<b>%s</b> is already on the watchlist.", html.EscapeString(name))
	}
	return fmt.Sprintf("Added <b>%s</b> to the watchlist.", html.EscapeString(name))
}

func (p *Processor) handleRemove(ctx context.Context, name string) string {
	if name == "" {
		return "Usage: /remove &lt;movie name&gt;"
	}
	removed, err := p.store.RemoveWatchlistEntry(ctx, name)
	if err != nil {
		p.logger.Warn("remove watchlist entry", logging.String("movie", name), logging.Error(err))
		return "Could not update the watchlist, try again later."
	}
	if !removed {
		return fmt.Sprintf("<b>%s</b> is not on the watchlist.", html.EscapeString(name))
	}
	return fmt.Sprintf("Removed <b>%s</b> from the watchlist.", html.EscapeString(name))
}

func (p *Processor) handleList(ctx context.Context) string {
	entries, err := p.store.Watchlist(ctx)
	if err != nil {
		p.logger.Warn("list watchlist", logging.Error(err))
		return "Could not read the watchlist, try again later."
	}
	if len(entries) == 0 {
		return "The watchlist is empty. Add a movie with /add &lt;movie name&gt;."
	}
	var builder strings.Builder
	builder.WriteString("<b>Watchlist</b>\n")
	for _, entry := range entries {
		builder.WriteString("• ")
		builder.WriteString(html.EscapeString(entry.MovieName))
		builder.WriteByte('\n')
	}
	return strings.TrimRight(builder.String(), "\n")
}

func (p *Processor) handleStatus(ctx context.Context) string {
	stats, err := p.store.Stats(ctx)
	if err != nil {
		p.logger.Warn("store stats", logging.Error(err))
		return "Could not read status, try again later."
	}
	text := fmt.Sprintf("Watching %d movies. %d showtimes on file, %d notified.",
		stats.WatchlistEntries, stats.Showtimes, stats.NotifiedShowtimes)
	if !stats.LastMovieCheckedAt.IsZero() {
		text += fmt.Sprintf(" Last check: %s.", stats.LastMovieCheckedAt.UTC().Format("Jan 2 15:04 MST"))
	}
	return text
}
