package singleinstance

// This file defines the API for single-instance ownership and command
// delegation. A resident xrandream process owns a loopback TCP port;
// later invocations (CLI, run-once flags) delegate their command to it so
// virtual-monitor state stays in one place.

import (
	"context"
)

// Server owns the TCP endpoint and answers delegated commands.
type Server interface {
	// Start begins listening on the start port of the configured range
	// and accepting client requests.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	// Request returns the parsed client request.
	Request() Request
	// RespondSuccess sends success with an optional payload (status
	// listing, applied-region summary).
	RespondSuccess(payload string) error
	// RespondError sends an error with human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Client attempts to delegate a command to a resident server.
type Client interface {
	// Send scans the configured TCP range, performs the PING handshake,
	// and delegates req to the resident. If no resident is found, returns
	// delegated=false, err=nil.
	Send(ctx context.Context, req Request) (delegated bool, payload string, err error)
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTcpClient() }
