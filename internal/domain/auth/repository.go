package auth

import (
	"context"
	"time"

	"storebridge/internal/core/id"
)

// UserRepository provides persistence for users.
type UserRepository interface {
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}

// TokenRepository provides persistence for refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, t *RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenID id.ID, reason string) error
	RevokeAllForUser(ctx context.Context, userID id.ID, reason string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
