package session

import (
	"context"
)

// Repository is a string key/value store holding the client session.
// Get returns ("", false, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
