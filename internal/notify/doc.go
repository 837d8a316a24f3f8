// Package notify turns newly detected showtimes into outbound messages: one
// batch per movie, lines ordered by local start time, each line labelled with
// its best premium format and seat-availability marker. Output stays within
// the Telegram HTML subset (bold and hyperlinks only).
package notify
