// Package checker orchestrates one poll-and-notify cycle: theatre and title
// resolution, showtime dedup against the store, notification delivery, and
// inbound command processing. Each invocation is guarded by an advisory file
// lock and tagged with a run id for the diagnostic run log.
package checker
