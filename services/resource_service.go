package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

// ResourceService is the data access service for one resource. It turns store
// sentinels into AppErrors so handlers never see persistence details.
type ResourceService[T any] struct {
	store       store.ResourceStore[T]
	label       string
	conflictMsg string
}

func NewResourceService[T any](s store.ResourceStore[T], label string) *ResourceService[T] {
	return &ResourceService[T]{
		store:       s,
		label:       label,
		conflictMsg: fmt.Sprintf("%s already exists", label),
	}
}

func (s *ResourceService[T]) Create(ctx context.Context, body types.Valuer) (*T, error) {
	return s.insert(ctx, body.Values())
}

// GetByID returns nil without an error when the record does not exist; deciding
// that a missing record is a 404 belongs to the caller.
func (s *ResourceService[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	record, err := s.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.translate(err, id)
	}
	return record, nil
}

func (s *ResourceService[T]) Query(ctx context.Context, filter types.Filter, opts types.QueryOptions) (*types.Page[T], error) {
	page, err := s.store.Query(ctx, filter, opts)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return page, nil
}

// UpdateByID applies the fields set in body. A missing record is a NotFound error.
func (s *ResourceService[T]) UpdateByID(ctx context.Context, id uuid.UUID, body types.Valuer) (*T, error) {
	return s.update(ctx, id, body.Values())
}

func (s *ResourceService[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return s.translate(err, id)
	}
	logger.GetLogger().Infow("Deleted record", "resource", s.label, "id", id)
	return nil
}

func (s *ResourceService[T]) insert(ctx context.Context, values map[string]any) (*T, error) {
	record, err := s.store.Create(ctx, values)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return record, nil
}

func (s *ResourceService[T]) update(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	record, err := s.store.UpdateByID(ctx, id, values)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return record, nil
}

func (s *ResourceService[T]) translate(err error, id any) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound(s.label, id)
	case errors.Is(err, store.ErrConflict):
		return apperrors.Wrap(err, apperrors.BadRequestError, s.conflictMsg)
	case errors.Is(err, store.ErrInvalidReference):
		return apperrors.Wrap(err, apperrors.BadRequestError, "Referenced record does not exist")
	default:
		logger.GetLogger().Errorw("Data access failed", "resource", s.label, "error", err)
		return fmt.Errorf("%s: %w", s.label, err)
	}
}
