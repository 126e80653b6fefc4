// Package sqlite provides the durable local state adapter backed by SQLite.
package sqlite
