package chathub

import "mailroom/backend/internal/models"

// Client is one attached transport connection. It abstracts the
// underlying mechanism so the hub can manage connection types uniformly;
// the production implementation is the websocket client.
type Client interface {
	// ClientID returns the transport handle this connection answers to.
	ClientID() string

	// SendChannel is where the hub queues notifications destined for
	// this connection. Send-only from the hub's perspective.
	SendChannel() chan<- models.Notification

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts down the connection and its channels.
	Close()
}
