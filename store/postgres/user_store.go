package postgres

import (
	"context"
	"fmt"

	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

// UserStore persists users. Emails are stored normalised, so lookups compare exactly.
type UserStore struct {
	*TableStore[types.User]
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(db Querier) *UserStore {
	return &UserStore{TableStore: NewTableStore[types.User](db, usersTable)}
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", s.selectList())
	return s.queryOne(ctx, "get by email", query, types.NormalizeEmail(email))
}
