// Package messaging wraps the Telegram Bot API behind the Messenger interface:
// send a message, poll inbound updates past a cursor, and test the connection.
package messaging
