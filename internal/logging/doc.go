// Package logging wires log/slog with marquee's configuration: console or JSON
// output, optional mirroring to a log file, and small attr helpers shared by
// the rest of the repository.
package logging
