// Package metadata stores opaque per-profile values (the data-encryption
// key, the session token) in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a small key/value store. Get returns (nil, nil) for a
// missing key and a non-nil slice for a present one, even when empty.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
