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

const itemColumns = `id, list_id, parent_id, title, description, is_completed, is_collapsed, "order", priority, created_at, updated_at`

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns a Postgres-backed implementation of ItemRepository.
func NewItemRepository(pool *pgxpool.Pool) repository.ItemRepository {
	return &itemRepository{pool: pool}
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM todo_items WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

func (r *itemRepository) ListByList(ctx context.Context, listID string) ([]domain.Item, error) {
	query := `
	SELECT ` + itemColumns + `
	FROM todo_items
	WHERE list_id = $1
	ORDER BY parent_id NULLS FIRST, "order", created_at
	`
	rows, err := r.pool.Query(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *itemRepository) ChildrenOf(ctx context.Context, listID string, parentID *string) ([]domain.Item, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if parentID == nil {
		query := `
		SELECT ` + itemColumns + `
		FROM todo_items
		WHERE list_id = $1 AND parent_id IS NULL
		ORDER BY "order", created_at
		`
		rows, err = r.pool.Query(ctx, query, listID)
	} else {
		query := `
		SELECT ` + itemColumns + `
		FROM todo_items
		WHERE list_id = $1 AND parent_id = $2
		ORDER BY "order", created_at
		`
		rows, err = r.pool.Query(ctx, query, listID, *parentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *itemRepository) Descendants(ctx context.Context, id string) ([]domain.Item, error) {
	query := `
	WITH RECURSIVE subtree AS (
		SELECT ` + itemColumns + ` FROM todo_items WHERE id = $1
		UNION ALL
		SELECT i.id, i.list_id, i.parent_id, i.title, i.description,
		       i.is_completed, i.is_collapsed, i."order", i.priority,
		       i.created_at, i.updated_at
		FROM todo_items i
		JOIN subtree s ON i.parent_id = s.id
	)
	SELECT ` + itemColumns + ` FROM subtree WHERE id <> $1
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *itemRepository) MaxSiblingOrder(ctx context.Context, listID string, parentID *string) (int, error) {
	var row pgx.Row
	if parentID == nil {
		const query = `
		SELECT COALESCE(MAX("order"), -1)
		FROM todo_items
		WHERE list_id = $1 AND parent_id IS NULL
		`
		row = r.pool.QueryRow(ctx, query, listID)
	} else {
		const query = `
		SELECT COALESCE(MAX("order"), -1)
		FROM todo_items
		WHERE list_id = $1 AND parent_id = $2
		`
		row = r.pool.QueryRow(ctx, query, listID, *parentID)
	}

	var maxOrder int
	if err := row.Scan(&maxOrder); err != nil {
		return 0, err
	}
	return maxOrder, nil
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, domain.ErrInvalidPayload
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Priority == "" {
		item.Priority = domain.PriorityMedium
	}

	const query = `
	INSERT INTO todo_items (id, list_id, parent_id, title, description, is_completed, is_collapsed, "order", priority)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.ListID,
		item.ParentID,
		item.Title,
		item.Description,
		item.Completed,
		item.Collapsed,
		item.Order,
		item.Priority,
	).Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	if item == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE todo_items
	SET title = $2,
		description = $3,
		is_completed = $4,
		is_collapsed = $5,
		"order" = $6,
		priority = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Completed,
		item.Collapsed,
		item.Order,
		item.Priority,
	).Scan(&item.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrItemNotFound
		}
		return err
	}
	return nil
}

func (r *itemRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `DELETE FROM todo_items WHERE id = ANY($1)`
		tag, err := tx.Exec(ctx, query, ids)
		if err != nil {
			return err
		}
		deleted = int(tag.RowsAffected())
		return nil
	})
	return deleted, err
}

func (r *itemRepository) SetCompleted(ctx context.Context, ids []string, completed bool) error {
	if len(ids) == 0 {
		return nil
	}
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
		UPDATE todo_items
		SET is_completed = $2, updated_at = NOW()
		WHERE id = ANY($1)
		`
		_, err := tx.Exec(ctx, query, ids, completed)
		return err
	})
}

func (r *itemRepository) SetParent(ctx context.Context, id string, parentID *string, order int) error {
	const query = `
	UPDATE todo_items
	SET parent_id = $2, "order" = $3, updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, parentID, order)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) SetList(ctx context.Context, ids []string, listID string) error {
	if len(ids) == 0 {
		return nil
	}
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
		UPDATE todo_items
		SET list_id = $2, updated_at = NOW()
		WHERE id = ANY($1)
		`
		_, err := tx.Exec(ctx, query, ids, listID)
		return err
	})
}

func (r *itemRepository) CompleteAll(ctx context.Context, listID string) (int, error) {
	const query = `
	UPDATE todo_items
	SET is_completed = TRUE, updated_at = NOW()
	WHERE list_id = $1 AND is_completed = FALSE
	`
	tag, err := r.pool.Exec(ctx, query, listID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(
		&item.ID,
		&item.ListID,
		&item.ParentID,
		&item.Title,
		&item.Description,
		&item.Completed,
		&item.Collapsed,
		&item.Order,
		&item.Priority,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
