package notify

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"marquee/internal/store"
)

// NewShowtime pairs a freshly inserted showtime row with the display names the
// rendered message needs.
type NewShowtime struct {
	Showtime    store.Showtime
	MovieName   string
	TheatreName string
}

// Batch is one outbound message covering every new showing of a single movie.
type Batch struct {
	MovieName string
	Text      string
}

// BuildBatches groups new showtimes by movie into one message per movie, lines
// sorted ascending by local start time. Movies appear in first-seen order.
func BuildBatches(items []NewShowtime) []Batch {
	if len(items) == 0 {
		return nil
	}

	order := make([]string, 0)
	groups := make(map[string][]NewShowtime)
	for _, item := range items {
		key := item.MovieName
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	batches := make([]Batch, 0, len(order))
	for _, movieName := range order {
		group := groups[movieName]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Showtime.StartLocal.Before(group[j].Showtime.StartLocal)
		})

		var builder strings.Builder
		noun := "showtimes"
		if len(group) == 1 {
			noun = "showtime"
		}
		fmt.Fprintf(&builder, "<b>%s</b> — %d new %s at %s\n",
			html.EscapeString(movieName), len(group), noun, html.EscapeString(group[0].TheatreName))
		for _, item := range group {
			builder.WriteString(renderLine(item.Showtime))
			builder.WriteByte('\n')
		}
		batches = append(batches, Batch{MovieName: movieName, Text: strings.TrimRight(builder.String(), "\n")})
	}
	return batches
}

func renderLine(showtime store.Showtime) string {
	timeText := html.EscapeString(showtime.StartLocal.Format("Mon Jan 2, 3:04 PM"))
	if showtime.TicketURL != "" {
		timeText = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(showtime.TicketURL), timeText)
	}

	var builder strings.Builder
	builder.WriteString("• ")
	builder.WriteString(timeText)
	builder.WriteString(" · ")
	builder.WriteString(html.EscapeString(DisplayFormat(showtime)))

	switch {
	case showtime.SoldOut:
		builder.WriteString(" · 🚫 sold out")
	case showtime.AlmostSoldOut:
		builder.WriteString(" · ⚠️ almost sold out")
	}
	return builder.String()
}
