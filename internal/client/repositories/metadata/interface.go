// Package metadata is the local key/value table of the console clients.
// The session token store keeps the credential pair here.
package metadata

import (
	"context"
)

// Repository reads and writes opaque values by key. Get reports a missing
// key as common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
