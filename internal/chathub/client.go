package chathub

import "faithlink/backend/internal/models"

// Client is the hub's view of one live connection, bound to a resolved
// identity for its whole lifetime. The websocket implementation lives in
// ws_client.go; tests substitute their own.
type Client interface {
	// GetUserID returns the identity the connection was bound to at
	// handshake time.
	GetUserID() string
	// GetRole returns the identity's role as resolved at handshake time.
	// Role is trusted for the connection's lifetime; a role change takes
	// effect on reconnect.
	GetRole() string
	// GetName returns the display name used in typing relays.
	GetName() string

	// GetSendChannel returns the channel the hub writes outbound events
	// to; the client's write pump drains it.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the connection and its send channel. Safe to call
	// more than once.
	Close()
}
