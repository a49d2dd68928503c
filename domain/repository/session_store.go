package repository

import (
	"context"
	"time"
)

// ISessionStore is the durable per-visitor key-value store.
// Values are kept as strings, the same way browser storage keeps them.
type ISessionStore interface {
	Load(ctx context.Context, sessionID string) (map[string]string, error)
	Save(ctx context.Context, sessionID string, values map[string]string, ttl time.Duration) error
	Clear(ctx context.Context, sessionID string) error
}
