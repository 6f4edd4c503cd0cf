package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

func newStoreService() (*ResourceService[types.Store], *MockStoreStore) {
	m := new(MockStoreStore)
	return NewResourceService[types.Store](m, types.StoreResource.Label), m
}

func TestResourceService_Create(t *testing.T) {
	ctx := context.Background()
	body := types.CreateStoreRequest{Name: "Main"}

	t.Run("success", func(t *testing.T) {
		svc, m := newStoreService()
		created := &types.Store{ID: uuid.New(), Name: "Main"}
		m.On("Create", ctx, body.Values()).Return(created, nil)

		got, err := svc.Create(ctx, body)
		require.NoError(t, err)
		assert.Equal(t, created, got)
		m.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		svc, m := newStoreService()
		m.On("Create", ctx, mock.Anything).Return(nil, fmt.Errorf("insert stores: %w", store.ErrConflict))

		_, err := svc.Create(ctx, body)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
		assert.Equal(t, "Store already exists", appErr.Message)
	})

	t.Run("invalid reference", func(t *testing.T) {
		svc, m := newStoreService()
		m.On("Create", ctx, mock.Anything).Return(nil, fmt.Errorf("insert stores: %w", store.ErrInvalidReference))

		_, err := svc.Create(ctx, body)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.BadRequestError, appErr.Type)
	})

	t.Run("infrastructure failure is not operational", func(t *testing.T) {
		svc, m := newStoreService()
		m.On("Create", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := svc.Create(ctx, body)
		require.Error(t, err)
		appErr := apperrors.Convert(err)
		assert.False(t, appErr.Operational)
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
	})
}

func TestResourceService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc, m := newStoreService()
		m.On("GetByID", ctx, id).Return(&types.Store{ID: id}, nil)

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("missing is nil without error", func(t *testing.T) {
		svc, m := newStoreService()
		m.On("GetByID", ctx, id).Return(nil, fmt.Errorf("get stores: %w", store.ErrNotFound))

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestResourceService_UpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	svc, m := newStoreService()
	name := "Renamed"
	m.On("UpdateByID", ctx, id, map[string]any{"name": name}).Return(nil, fmt.Errorf("update stores: %w", store.ErrNotFound))
	m.On("DeleteByID", ctx, id).Return(fmt.Errorf("delete stores: %w", store.ErrNotFound))

	_, err := svc.UpdateByID(ctx, id, types.UpdateStoreRequest{Name: &name})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())
	assert.Equal(t, "Store not found", appErr.Message)

	err = svc.DeleteByID(ctx, id)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())
	m.AssertExpectations(t)
}

func TestResourceService_Query(t *testing.T) {
	ctx := context.Background()
	svc, m := newStoreService()
	opts := types.ParseQueryOptions("", "5", "2", "")
	page := &types.Page[types.Store]{Items: []types.Store{{Name: "A"}}, Count: 6, Offset: 5, Limit: 5}
	m.On("Query", ctx, types.Filter{"name": "A"}, opts).Return(page, nil)

	got, err := svc.Query(ctx, types.Filter{"name": "A"}, opts)
	require.NoError(t, err)
	assert.Equal(t, page, got)
}
