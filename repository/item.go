package repository

import (
	"context"

	"github.com/nestdo/backend/domain"
)

// ItemRepository is dumb storage access for the item tree: lookups, ordered
// child retrieval and bulk writes. No tree rule is enforced here; the item
// use case computes cascade sets and validates before calling in.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// ListByList returns every item in the list ordered by (parent_id,
	// "order", created_at) so the assembler receives a stable sequence.
	ListByList(ctx context.Context, listID string) ([]domain.Item, error)
	// ChildrenOf returns the direct children of parentID within listID,
	// ordered like ListByList. A nil parentID selects root items.
	ChildrenOf(ctx context.Context, listID string, parentID *string) ([]domain.Item, error)
	// Descendants returns the full subtree below id, excluding id itself.
	Descendants(ctx context.Context, id string) ([]domain.Item, error)
	// MaxSiblingOrder returns the highest "order" among the children of
	// parentID (roots when nil), or -1 when there are none.
	MaxSiblingOrder(ctx context.Context, listID string, parentID *string) (int, error)

	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	// DeleteMany removes the given ids in one transaction and reports how
	// many rows went away.
	DeleteMany(ctx context.Context, ids []string) (int, error)
	// SetCompleted flips the completed flag on every given id in one
	// transaction.
	SetCompleted(ctx context.Context, ids []string, completed bool) error
	// SetParent re-parents a single item and assigns its new sibling order.
	SetParent(ctx context.Context, id string, parentID *string, order int) error
	// SetList moves the given ids (a root and its subtree) to another list.
	SetList(ctx context.Context, ids []string, listID string) error
	// CompleteAll marks every item in the list completed and reports how
	// many items changed state.
	CompleteAll(ctx context.Context, listID string) (int, error)
}
