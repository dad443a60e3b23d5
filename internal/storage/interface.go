package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when the backing store has never been initialized
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrEmbeddedCredentials is returned when a PostgreSQL connection string carries a password
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")
)

// Provider is an opaque string-keyed store. Values are JSON documents owned
// by the caller; the provider never inspects them.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)

	// Utils
	GetConfigPath() string
}
