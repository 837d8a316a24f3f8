package amc

import (
	"fmt"
	"strings"
	"time"
)

// TheatreLocation is the address block attached to a catalog theatre.
type TheatreLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Theatre is one catalog theatre entry.
type Theatre struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Location TheatreLocation `json:"location"`
}

// LocationText renders the theatre's city and state as a single line.
func (t Theatre) LocationText() string {
	parts := make([]string, 0, 2)
	if city := strings.TrimSpace(t.Location.City); city != "" {
		parts = append(parts, city)
	}
	if state := strings.TrimSpace(t.Location.State); state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

// Movie is one catalog title entry.
type Movie struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	ReleaseDateUTC string `json:"releaseDateUtc"`
	MPAARating     string `json:"mpaaRating"`
	RunTime        int    `json:"runTime"`
	Genre          string `json:"genre"`
}

// Attribute is one display attribute of a showing, e.g. a premium format.
type Attribute struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Showtime is one raw catalog showing of a movie at a theatre.
type Showtime struct {
	ID                int64       `json:"id"`
	MovieID           int64       `json:"movieId"`
	TheatreID         int64       `json:"theatreId"`
	ShowDateTimeUTC   string      `json:"showDateTimeUtc"`
	ShowDateTimeLocal string      `json:"showDateTimeLocal"`
	Auditorium        int         `json:"auditorium"`
	IsSoldOut         bool        `json:"isSoldOut"`
	IsAlmostSoldOut   bool        `json:"isAlmostSoldOut"`
	Attributes        []Attribute `json:"attributes"`
	PurchaseURL       string      `json:"purchaseUrl"`
}

// StartUTC parses the showing's UTC start time.
func (s Showtime) StartUTC() (time.Time, error) {
	value := strings.TrimSpace(s.ShowDateTimeUTC)
	if value == "" {
		return time.Time{}, fmt.Errorf("showtime %d has no UTC start", s.ID)
	}
	start, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("showtime %d has malformed UTC start %q: %w", s.ID, value, err)
	}
	return start, nil
}

// StartLocal parses the showing's theatre-local start time. The catalog
// reports local times as naive timestamps without a zone.
func (s Showtime) StartLocal() (time.Time, error) {
	value := strings.TrimSpace(s.ShowDateTimeLocal)
	if value == "" {
		return time.Time{}, fmt.Errorf("showtime %d has no local start", s.ID)
	}
	start, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("showtime %d has malformed local start %q: %w", s.ID, value, err)
	}
	return start, nil
}

type theatresEmbedded struct {
	Theatres []Theatre `json:"theatres"`
}

type theatresPage struct {
	Embedded theatresEmbedded `json:"_embedded"`
}

type moviesEmbedded struct {
	Movies []Movie `json:"movies"`
}

type moviesPage struct {
	PageNumber int            `json:"pageNumber"`
	PageCount  int            `json:"pageCount"`
	Embedded   moviesEmbedded `json:"_embedded"`
}

type showtimesEmbedded struct {
	Showtimes []Showtime `json:"showtimes"`
}

type showtimesPage struct {
	Embedded showtimesEmbedded `json:"_embedded"`
}
