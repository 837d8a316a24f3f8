// Package commands interprets inbound chat messages as watchlist commands and
// advances the persisted command cursor over every message it sees.
package commands
