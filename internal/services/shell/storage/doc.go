// Package storage declares the durable local state contract of the shell.
//
// The only state kept locally is the auth token; everything else is owned by
// the remote authority.
package storage
