// Command marquee tracks movie showtimes at a configured theatre and sends
// Telegram notifications about new ones. The `run` subcommand performs one
// poll cycle and is meant to be scheduled externally; the remaining
// subcommands manage the watchlist and inspect local state.
package main
