package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/repository"
)

type listRepository struct {
	pool *pgxpool.Pool
}

// NewListRepository returns a Postgres-backed implementation of ListRepository.
func NewListRepository(pool *pgxpool.Pool) repository.ListRepository {
	return &listRepository{pool: pool}
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*domain.List, error) {
	const query = `
	SELECT id, user_id, title, description, created_at, updated_at
	FROM todo_lists
	WHERE id = $1
	`
	return scanList(r.pool.QueryRow(ctx, query, id))
}

func (r *listRepository) ListByUser(ctx context.Context, userID string) ([]domain.List, error) {
	const query = `
	SELECT id, user_id, title, description, created_at, updated_at
	FROM todo_lists
	WHERE user_id = $1
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []domain.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

func (r *listRepository) Create(ctx context.Context, list *domain.List) (*domain.List, error) {
	if list == nil {
		return nil, domain.ErrInvalidPayload
	}
	if list.ID == "" {
		list.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO todo_lists (id, user_id, title, description)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		list.ID,
		list.UserID,
		list.Title,
		list.Description,
	).Scan(&list.CreatedAt, &list.UpdatedAt); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listRepository) Update(ctx context.Context, list *domain.List) error {
	if list == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE todo_lists
	SET title = $2,
		description = $3,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		list.ID,
		list.Title,
		list.Description,
	).Scan(&list.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrListNotFound
		}
		return err
	}
	return nil
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	// Items go away through the ON DELETE CASCADE on todo_items.list_id.
	const query = `DELETE FROM todo_lists WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

func scanList(row rowScanner) (*domain.List, error) {
	var list domain.List
	if err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.Title,
		&list.Description,
		&list.CreatedAt,
		&list.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}
