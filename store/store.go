// Package store declares the persistence contracts used by the services.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tallymatic/tallymatic-api/types"
)

// ResourceStore persists one resource table. values maps column names to values;
// columns outside the table's writable set are ignored.
type ResourceStore[T any] interface {
	Create(ctx context.Context, values map[string]any) (*T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Query(ctx context.Context, filter types.Filter, opts types.QueryOptions) (*types.Page[T], error)
	UpdateByID(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// UserStore adds the lookups authentication needs.
type UserStore interface {
	ResourceStore[types.User]
	GetByEmail(ctx context.Context, email string) (*types.User, error)
}

// TokenStore is the allow-list of issued refresh, reset and verification tokens.
type TokenStore interface {
	Save(ctx context.Context, tokenType types.TokenType, tokenID string, userID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, tokenType types.TokenType, tokenID string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenType types.TokenType, tokenID string) error
	DeleteAllForUser(ctx context.Context, tokenType types.TokenType, userID uuid.UUID) error
}
