// Package tokenstore keeps the single live refresh token of each user.
package tokenstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no refresh token is stored for a user.
var ErrNotFound = errors.New("refresh token not found")

// Store persists one refresh token per user. Saving a token replaces any
// previous one.
type Store interface {
	Save(ctx context.Context, userID int64, token string, ttl time.Duration) error
	Get(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, userID int64) error
}
