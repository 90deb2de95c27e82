// Package items provides the PostgreSQL-backed item store: owner-scoped
// CRUD plus the filtered/sorted/paginated listing query.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/avoroncov/itemvault/internal/common"
	"github.com/avoroncov/itemvault/internal/dbx"
	"github.com/avoroncov/itemvault/internal/server/models"
)

const itemColumns = "id, user_id, title, description, status, visibility, created_at, updated_at"

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new item row; id and timestamps are assigned by the
// database.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query :=
		`INSERT INTO items (user_id, title, description, status, visibility)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.UserID, item.Title, item.Description, item.Status, item.Visibility).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

// GetByID returns the item with the given id regardless of owner, or
// common.ErrorNotFound. Ownership classification happens in the service.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item := &models.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.Title, &item.Description,
		&item.Status, &item.Visibility, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

// List returns one page of the owner's items plus the total count matching
// the same predicate across all pages. params is expected to be normalized
// by the caller.
func (r *PostgresRepository) List(ctx context.Context, ownerID int64, params ListParams) ([]*models.Item, int64, error) {
	q := buildListQuery(ownerID, params)

	query := fmt.Sprintf(
		`SELECT %s FROM items WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		itemColumns, q.where, q.order, len(q.args)+1, len(q.args)+2)
	args := append(q.args, params.Limit, params.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Description,
			&item.Status, &item.Visibility, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM items WHERE ` + q.where
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, q.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

// Update applies the non-nil patch fields to the row with the given id,
// but only when it still belongs to ownerID: the ownership check is part
// of the statement itself, so a concurrent reowner/delete cannot slip
// between check and act. Returns the number of rows affected.
func (r *PostgresRepository) Update(ctx context.Context, id int64, ownerID int64, patch Patch) (int64, error) {
	var sets []string
	var args []any

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.Visibility != nil {
		appendSet("visibility", *patch.Visibility)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`UPDATE items SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)+1, len(args)+2)
	args = append(args, id, ownerID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// Delete hard-deletes the row with the given id when it belongs to
// ownerID. Returns the number of rows affected.
func (r *PostgresRepository) Delete(ctx context.Context, id int64, ownerID int64) (int64, error) {
	query := `DELETE FROM items WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
