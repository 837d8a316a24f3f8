package notify

import (
	"fmt"
	"strings"

	"marquee/internal/store"
)

// attributePriority orders premium-format codes from most to least notable.
// The first code present on a showing decides its display label.
var attributePriority = []string{
	"imaxwithlaseratamc",
	"imaxwithlaser",
	"dolbycinemaatamc",
	"dolbycinema",
	"imax",
	"reald3d",
	"digital3d",
	"laseratamc",
	"amcsignaturerecliners",
}

// brandSuffixes are theatre-brand decorations stripped from attribute display
// names before rendering.
var brandSuffixes = []string{
	" at amc theatres",
	" at amc",
}

// DisplayFormat picks the single best display attribute of a showing by
// premium-format priority, falling back to the auditorium number when no
// premium attribute is present.
func DisplayFormat(showtime store.Showtime) string {
	for _, code := range attributePriority {
		for _, attribute := range showtime.Attributes {
			if strings.EqualFold(attribute.Code, code) {
				return stripBrandSuffix(attribute.Name)
			}
		}
	}
	return fmt.Sprintf("Auditorium %d", showtime.Auditorium)
}

func stripBrandSuffix(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for _, suffix := range brandSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return strings.TrimSpace(trimmed[:len(trimmed)-len(suffix)])
		}
	}
	return trimmed
}
