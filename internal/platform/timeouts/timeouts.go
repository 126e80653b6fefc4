// Package timeouts defines the timeout defaults shared by intakedesk processes.
package timeouts

import "time"

// AuthRequest caps one call to the remote auth authority.
const AuthRequest = 10 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
