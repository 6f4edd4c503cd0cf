// Package redis keeps the allow-list of issued one-time and refresh tokens.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

// TokenStore records token ids under "token:<type>:<id>" with the token's lifetime,
// and indexes them per user under "token:<type>:user:<user id>" so every token of a
// kind can be revoked at once.
type TokenStore struct {
	client *goredis.Client
}

var _ store.TokenStore = (*TokenStore)(nil)

func NewTokenStore(client *goredis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func tokenKey(tokenType types.TokenType, tokenID string) string {
	return fmt.Sprintf("token:%s:%s", tokenType, tokenID)
}

func userKey(tokenType types.TokenType, userID uuid.UUID) string {
	return fmt.Sprintf("token:%s:user:%s", tokenType, userID)
}

func (s *TokenStore) Save(ctx context.Context, tokenType types.TokenType, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(tokenType, tokenID), userID.String(), ttl)
	pipe.SAdd(ctx, userKey(tokenType, userID), tokenID)
	pipe.Expire(ctx, userKey(tokenType, userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %s token: %w", tokenType, err)
	}
	return nil
}

func (s *TokenStore) Lookup(ctx context.Context, tokenType types.TokenType, tokenID string) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, tokenKey(tokenType, tokenID)).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, fmt.Errorf("lookup %s token: %w", tokenType, store.ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup %s token: %w", tokenType, err)
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup %s token: corrupt owner %q: %w", tokenType, raw, err)
	}
	return userID, nil
}

func (s *TokenStore) Delete(ctx context.Context, tokenType types.TokenType, tokenID string) error {
	deleted, err := s.client.Del(ctx, tokenKey(tokenType, tokenID)).Result()
	if err != nil {
		return fmt.Errorf("delete %s token: %w", tokenType, err)
	}
	if deleted == 0 {
		return fmt.Errorf("delete %s token: %w", tokenType, store.ErrNotFound)
	}
	return nil
}

func (s *TokenStore) DeleteAllForUser(ctx context.Context, tokenType types.TokenType, userID uuid.UUID) error {
	index := userKey(tokenType, userID)
	tokenIDs, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("list %s tokens: %w", tokenType, err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, tokenID := range tokenIDs {
		keys = append(keys, tokenKey(tokenType, tokenID))
	}
	keys = append(keys, index)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete %s tokens: %w", tokenType, err)
	}
	return nil
}
