package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

// MockStoreStore is a testify mock of store.ResourceStore for catalog stores.
type MockStoreStore struct {
	mock.Mock
}

func (m *MockStoreStore) Create(ctx context.Context, values map[string]any) (*types.Store, error) {
	args := m.Called(ctx, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Store), args.Error(1)
}

func (m *MockStoreStore) GetByID(ctx context.Context, id uuid.UUID) (*types.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Store), args.Error(1)
}

func (m *MockStoreStore) Query(ctx context.Context, filter types.Filter, opts types.QueryOptions) (*types.Page[types.Store], error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Page[types.Store]), args.Error(1)
}

func (m *MockStoreStore) UpdateByID(ctx context.Context, id uuid.UUID, values map[string]any) (*types.Store, error) {
	args := m.Called(ctx, id, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Store), args.Error(1)
}

func (m *MockStoreStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// memUserStore is an in-memory store.UserStore.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]types.User
}

var _ store.UserStore = (*memUserStore)(nil)

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uuid.UUID]types.User{}}
}

func (s *memUserStore) Create(_ context.Context, values map[string]any) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, _ := values["email"].(string)
	for _, u := range s.users {
		if u.Email == email {
			return nil, fmt.Errorf("insert users: %w", store.ErrConflict)
		}
	}
	now := time.Now()
	user := types.User{ID: uuid.New(), Email: email, CreatedAt: now, UpdatedAt: now}
	apply(&user, values)
	s.users[user.ID] = user
	return &user, nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("get users %s: %w", id, store.ErrNotFound)
	}
	return &user, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get users by email: %w", store.ErrNotFound)
}

func (s *memUserStore) Query(_ context.Context, _ types.Filter, opts types.QueryOptions) (*types.Page[types.User], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		items = append(items, u)
	}
	return &types.Page[types.User]{Items: items, Count: int64(len(items)), Offset: opts.Offset(), Limit: opts.Limit}, nil
}

func (s *memUserStore) UpdateByID(_ context.Context, id uuid.UUID, values map[string]any) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("update users %s: %w", id, store.ErrNotFound)
	}
	apply(&user, values)
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return &user, nil
}

func (s *memUserStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("delete users %s: %w", id, store.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

func apply(user *types.User, values map[string]any) {
	if v, ok := values["name"].(string); ok {
		user.Name = v
	}
	if v, ok := values["email"].(string); ok {
		user.Email = v
	}
	if v, ok := values["password"].(string); ok {
		user.Password = v
	}
	if v, ok := values["role"].(string); ok {
		user.Role = types.Role(v)
	}
	if v, ok := values["is_email_verified"].(bool); ok {
		user.IsEmailVerified = v
	}
}

// memTokenStore is an in-memory store.TokenStore without expiry.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

var _ store.TokenStore = (*memTokenStore)(nil)

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]uuid.UUID{}}
}

func (s *memTokenStore) key(tokenType types.TokenType, tokenID string) string {
	return string(tokenType) + ":" + tokenID
}

func (s *memTokenStore) Save(_ context.Context, tokenType types.TokenType, tokenID string, userID uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(tokenType, tokenID)] = userID
	return nil
}

func (s *memTokenStore) Lookup(_ context.Context, tokenType types.TokenType, tokenID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[s.key(tokenType, tokenID)]
	if !ok {
		return uuid.Nil, store.ErrNotFound
	}
	return userID, nil
}

func (s *memTokenStore) Delete(_ context.Context, tokenType types.TokenType, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(tokenType, tokenID)
	if _, ok := s.tokens[key]; !ok {
		return store.ErrNotFound
	}
	delete(s.tokens, key)
	return nil
}

func (s *memTokenStore) DeleteAllForUser(_ context.Context, tokenType types.TokenType, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := string(tokenType) + ":"
	for key, owner := range s.tokens {
		if owner == userID && len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *memTokenStore) count(tokenType types.TokenType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := string(tokenType) + ":"
	n := 0
	for key := range s.tokens {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// MockMailer records the tokens it was asked to send.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}
