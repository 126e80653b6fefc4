package storage

import "context"

// Store persists small string values under fixed keys.
type Store interface {
	Close() error
	// GetValue returns the value for key; ok is false when the key is absent.
	GetValue(ctx context.Context, key string) (value string, ok bool, err error)
	PutValue(ctx context.Context, key, value string) error
	// DeleteValue removes key. Deleting an absent key is not an error.
	DeleteValue(ctx context.Context, key string) error
}
