// Package postgres implements the store contracts on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

// Querier is the subset of pgx used by the stores. It is implemented by
// *pgxpool.Pool, pgx.Tx and pgxmock.PgxPoolIface.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table describes a resource table. All identifiers come from this description,
// never from request input, so they are safe to interpolate into SQL.
type Table struct {
	Name string
	// Columns are selected in this order and must match the record's db tags.
	Columns []string
	// Writable columns may be set by create and update.
	Writable []string
	// Filters may appear in equality filters of list queries.
	Filters []string
	// Sortable may appear in sortBy.
	Sortable []string
}

// TableStore is a generic CRUD store over one table whose primary key is a uuid
// column named id and which tracks created_at / updated_at.
type TableStore[T any] struct {
	db    Querier
	table Table
}

var _ store.ResourceStore[types.Store] = (*TableStore[types.Store])(nil)

func NewTableStore[T any](db Querier, table Table) *TableStore[T] {
	return &TableStore[T]{db: db, table: table}
}

func (s *TableStore[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	columns, args := s.writable(values)

	var query string
	if len(columns) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", s.table.Name, s.selectList())
	} else {
		placeholders := make([]string, len(columns))
		for i := range columns {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			s.table.Name,
			strings.Join(columns, ", "),
			strings.Join(placeholders, ", "),
			s.selectList(),
		)
	}

	return s.queryOne(ctx, "create", query, args...)
}

func (s *TableStore[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.selectList(), s.table.Name)
	return s.queryOne(ctx, "get", query, id)
}

func (s *TableStore[T]) Query(ctx context.Context, filter types.Filter, opts types.QueryOptions) (*types.Page[T], error) {
	if opts.Limit <= 0 {
		opts.Limit = types.DefaultPageLimit
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	where, args := s.where(filter)

	var count int64
	countQuery := fmt.Sprintf("SELECT count(*) FROM %s%s", s.table.Name, where)
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, s.translate("count", err)
	}

	listQuery := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		s.selectList(),
		s.table.Name,
		where,
		s.orderBy(opts.SortBy),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := s.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, s.translate("list", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, s.translate("list", err)
	}
	if items == nil {
		items = []T{}
	}

	return &types.Page[T]{
		Items:  items,
		Count:  count,
		Offset: opts.Offset(),
		Limit:  opts.Limit,
	}, nil
}

func (s *TableStore[T]) UpdateByID(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	columns, args := s.writable(values)

	assignments := make([]string, 0, len(columns)+1)
	for i, column := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, i+1))
	}
	assignments = append(assignments, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		s.table.Name,
		strings.Join(assignments, ", "),
		len(args),
		s.selectList(),
	)
	return s.queryOne(ctx, "update", query, args...)
}

func (s *TableStore[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table.Name)
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return s.translate("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s %s: %w", s.table.Name, id, store.ErrNotFound)
	}
	return nil
}

func (s *TableStore[T]) queryOne(ctx context.Context, op, query string, args ...any) (*T, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, s.translate(op, err)
	}
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, s.translate(op, err)
	}
	return record, nil
}

func (s *TableStore[T]) selectList() string {
	return strings.Join(s.table.Columns, ", ")
}

// writable keeps the known columns of values in table order so the generated SQL
// and its arguments are deterministic.
func (s *TableStore[T]) writable(values map[string]any) ([]string, []any) {
	var columns []string
	var args []any
	for _, column := range s.table.Writable {
		if value, ok := values[column]; ok {
			columns = append(columns, column)
			args = append(args, value)
		}
	}
	return columns, args
}

func (s *TableStore[T]) where(filter types.Filter) (string, []any) {
	var conditions []string
	var args []any
	for _, column := range s.table.Filters {
		value, ok := filter[column]
		if !ok {
			continue
		}
		args = append(args, value)
		// uuid columns are compared as text so a malformed id matches nothing
		// instead of failing the whole query.
		if strings.HasSuffix(column, "_id") {
			conditions = append(conditions, fmt.Sprintf("%s::text = $%d", column, len(args)))
		} else {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *TableStore[T]) orderBy(sortBy []types.SortField) string {
	var terms []string
	seen := map[string]bool{}
	for _, field := range sortBy {
		if seen[field.Field] || !slices.Contains(s.table.Sortable, field.Field) {
			continue
		}
		seen[field.Field] = true
		direction := "ASC"
		if field.Descending {
			direction = "DESC"
		}
		terms = append(terms, field.Field+" "+direction)
	}
	if len(terms) == 0 {
		terms = append(terms, "created_at ASC")
	}
	if !seen["id"] {
		terms = append(terms, "id ASC")
	}
	return strings.Join(terms, ", ")
}

func (s *TableStore[T]) translate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", op, s.table.Name, store.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s %s: %w (%s)", op, s.table.Name, store.ErrConflict, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%s %s: %w (%s)", op, s.table.Name, store.ErrInvalidReference, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s %s: %w", op, s.table.Name, err)
}
