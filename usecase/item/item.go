package item

import (
	"context"

	"go.uber.org/zap"

	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/repository"
	"github.com/nestdo/backend/usecase"
)

// Config carries the deploy-time knobs of the item tree.
type Config struct {
	// MaxDepth is the number of nesting levels a list may hold (3 means
	// depths 0..2). Zero or negative disables the cap entirely; the value
	// is fixed at boot and never switched at runtime.
	MaxDepth int
}

// UseCase implements the item tree operations: creation under a parent,
// re-parenting, cross-list moves, cascade delete, completion propagation and
// ordered retrieval. Every operation takes the acting user explicitly and
// serializes against other mutations of the same list.
type UseCase struct {
	items    repository.ItemRepository
	lists    repository.ListRepository
	buffer   usecase.OperationBuffer
	logger   *zap.Logger
	maxDepth int
	locks    *listLocks
}

func New(items repository.ItemRepository, lists repository.ListRepository, buffer usecase.OperationBuffer, logger *zap.Logger, cfg Config) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		items:    items,
		lists:    lists,
		buffer:   buffer,
		logger:   logger,
		maxDepth: cfg.MaxDepth,
		locks:    newListLocks(),
	}
}

// CreateParams carries the caller-supplied fields for a new item.
type CreateParams struct {
	ListID      string
	ParentID    *string
	Title       string
	Description string
	Priority    domain.Priority
}

// Create validates ownership, parent placement and depth, then inserts the
// item at the end of its sibling group. Adding a child under a completed
// parent uncompletes the parent chain.
func (uc *UseCase) Create(ctx context.Context, actorID string, params CreateParams) (*domain.Item, error) {
	if params.Title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if params.Priority == "" {
		params.Priority = domain.PriorityMedium
	}
	if !params.Priority.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invalid priority")
	}

	unlock := uc.locks.lock(params.ListID)
	defer unlock()

	if _, err := uc.requireListOwner(ctx, actorID, params.ListID); err != nil {
		return nil, err
	}

	var parent *domain.Item
	if params.ParentID != nil {
		var err error
		parent, err = uc.resolveParent(ctx, *params.ParentID, params.ListID)
		if err != nil {
			return nil, err
		}
		parentDepth, err := uc.depthOf(ctx, parent)
		if err != nil {
			return nil, err
		}
		if err := uc.checkDepth(parentDepth, 0); err != nil {
			return nil, err
		}
	}

	maxOrder, err := uc.items.MaxSiblingOrder(ctx, params.ListID, params.ParentID)
	if err != nil {
		return nil, err
	}

	created, err := uc.items.Create(ctx, &domain.Item{
		ListID:      params.ListID,
		ParentID:    params.ParentID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Order:       maxOrder + 1,
	})
	if err != nil {
		return nil, err
	}

	// A fresh incomplete child invalidates the completion of everything
	// above it.
	if parent != nil && parent.Completed {
		if err := uc.items.SetCompleted(ctx, []string{parent.ID}, false); err != nil {
			return nil, err
		}
		if _, err := uc.uncompleteUpward(ctx, parent); err != nil {
			return nil, err
		}
	}

	uc.logger.Debug("item created",
		zap.String("item_id", created.ID),
		zap.String("list_id", created.ListID))
	return created, nil
}

// UpdateParams carries optional field updates; nil means leave unchanged.
// Completion and collapse carry side effects and have their own operations.
type UpdateParams struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	Order       *int
}

// Update applies field-level changes without touching the hierarchy.
func (uc *UseCase) Update(ctx context.Context, actorID, itemID string, params UpdateParams) (*domain.Item, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if *params.Title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
		}
		it.Title = *params.Title
	}
	if params.Description != nil {
		it.Description = *params.Description
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, domain.NewError(domain.ErrCodeInvalid, "invalid priority")
		}
		it.Priority = *params.Priority
	}
	if params.Order != nil {
		it.Order = *params.Order
	}

	if err := uc.items.Update(ctx, it); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, it, err) {
			return it, nil
		}
		return nil, err
	}
	return it, nil
}

// ToggleComplete flips the completed flag. Completing cascades down the
// whole subtree and then auto-completes ancestors whose children are all
// done; un-completing ripples incompletion up the chain unconditionally.
// Returns the item plus the ids of every other node whose state changed.
func (uc *UseCase) ToggleComplete(ctx context.Context, actorID, itemID string) (*domain.Item, []string, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return nil, nil, err
	}

	unlock := uc.locks.lock(it.ListID)
	defer unlock()

	// Re-read under the lock: another mutation may have landed first.
	if it, err = uc.items.GetByID(ctx, itemID); err != nil {
		return nil, nil, err
	}

	var affected []string
	if !it.Completed {
		descendants, err := uc.items.Descendants(ctx, it.ID)
		if err != nil {
			return nil, nil, err
		}
		changed, err := uc.completeSubtree(ctx, it, descendants)
		if err != nil {
			return nil, nil, err
		}
		affected = append(affected, changed...)

		upward, err := uc.autoCompleteUpward(ctx, it)
		if err != nil {
			return nil, nil, err
		}
		affected = append(affected, upward...)
	} else {
		if err := uc.items.SetCompleted(ctx, []string{it.ID}, false); err != nil {
			return nil, nil, err
		}
		affected = append(affected, it.ID)

		upward, err := uc.uncompleteUpward(ctx, it)
		if err != nil {
			return nil, nil, err
		}
		affected = append(affected, upward...)
	}

	fresh, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	return fresh, affected, nil
}

// ToggleCollapsed flips the persisted collapse hint. No cascade; toggling a
// leaf is accepted and simply has no visual effect.
func (uc *UseCase) ToggleCollapsed(ctx context.Context, actorID, itemID string) (*domain.Item, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	it.Collapsed = !it.Collapsed
	if err := uc.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// MoveToParent re-parents an item within its list, appending it to the new
// sibling group. The whole subtree shifts with it, so the depth check covers
// the deepest descendant, and completion is re-derived on both the old and
// the new chain.
func (uc *UseCase) MoveToParent(ctx context.Context, actorID, itemID string, newParentID *string) (*domain.Item, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(it.ListID)
	defer unlock()

	if it, err = uc.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	sameParent := (it.ParentID == nil && newParentID == nil) ||
		(it.ParentID != nil && newParentID != nil && *it.ParentID == *newParentID)
	if sameParent {
		return it, nil
	}

	descendants, err := uc.items.Descendants(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	height := subtreeHeight(it.ID, descendants)

	var newParent *domain.Item
	if newParentID != nil {
		if err := checkNoCycle(it.ID, *newParentID, descendants); err != nil {
			return nil, err
		}
		newParent, err = uc.resolveParent(ctx, *newParentID, it.ListID)
		if err != nil {
			return nil, err
		}
		parentDepth, err := uc.depthOf(ctx, newParent)
		if err != nil {
			return nil, err
		}
		if err := uc.checkDepth(parentDepth, height); err != nil {
			return nil, err
		}
	} else {
		if err := uc.checkDepth(-1, height); err != nil {
			return nil, err
		}
	}

	maxOrder, err := uc.items.MaxSiblingOrder(ctx, it.ListID, newParentID)
	if err != nil {
		return nil, err
	}
	if err := uc.items.SetParent(ctx, it.ID, newParentID, maxOrder+1); err != nil {
		return nil, err
	}

	// Membership changed on both sides; re-derive completion upward from
	// the old and new parents.
	if it.ParentID != nil {
		oldParent, err := uc.items.GetByID(ctx, *it.ParentID)
		if err != nil {
			return nil, err
		}
		if _, err := uc.recomputeUpward(ctx, oldParent); err != nil {
			return nil, err
		}
	}
	if newParent != nil {
		if _, err := uc.recomputeUpward(ctx, newParent); err != nil {
			return nil, err
		}
	}

	moved, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("item re-parented", zap.String("item_id", moved.ID))
	return moved, nil
}

// MoveToList moves a root item and its entire subtree to another list owned
// by the same user. Non-root items must be re-parented within their list
// instead. Both list trees are locked, lower id first.
func (uc *UseCase) MoveToList(ctx context.Context, actorID, itemID, targetListID string) (*domain.Item, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.requireListOwner(ctx, actorID, targetListID); err != nil {
		return nil, err
	}
	if !it.IsRoot() {
		return nil, domain.ErrRootOnlyMove
	}
	if it.ListID == targetListID {
		return it, nil
	}

	unlock := uc.locks.lockPair(it.ListID, targetListID)
	defer unlock()

	if it, err = uc.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if !it.IsRoot() {
		return nil, domain.ErrRootOnlyMove
	}

	descendants, err := uc.items.Descendants(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(descendants)+1)
	ids = append(ids, it.ID)
	for i := range descendants {
		ids = append(ids, descendants[i].ID)
	}

	// Parent pointers stay valid because the subtree moves as a unit.
	if err := uc.items.SetList(ctx, ids, targetListID); err != nil {
		return nil, err
	}

	maxOrder, err := uc.items.MaxSiblingOrder(ctx, targetListID, nil)
	if err != nil {
		return nil, err
	}
	if err := uc.items.SetParent(ctx, it.ID, nil, maxOrder+1); err != nil {
		return nil, err
	}

	moved, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("item moved to list",
		zap.String("item_id", moved.ID),
		zap.String("target_list_id", targetListID))
	return moved, nil
}

// Delete removes the item and its whole subtree in one transaction and
// returns the number of deleted nodes.
func (uc *UseCase) Delete(ctx context.Context, actorID, itemID string) (int, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return 0, err
	}

	unlock := uc.locks.lock(it.ListID)
	defer unlock()

	descendants, err := uc.items.Descendants(ctx, it.ID)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(descendants)+1)
	ids = append(ids, it.ID)
	for i := range descendants {
		ids = append(ids, descendants[i].ID)
	}

	deleted, err := uc.items.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	uc.logger.Debug("item deleted",
		zap.String("item_id", it.ID),
		zap.Int("nodes", deleted))
	return deleted, nil
}

// GetTree returns the assembled forest of a list.
func (uc *UseCase) GetTree(ctx context.Context, actorID, listID string) ([]*domain.ItemNode, error) {
	if _, err := uc.requireListOwner(ctx, actorID, listID); err != nil {
		return nil, err
	}
	items, err := uc.items.ListByList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return domain.AssembleForest(items), nil
}

// GetSubtree returns one item with its nested children; the requested item
// is the root of the returned node and has depth 0.
func (uc *UseCase) GetSubtree(ctx context.Context, actorID, itemID string) (*domain.ItemNode, error) {
	it, err := uc.requireItemOwner(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	descendants, err := uc.items.Descendants(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	forest := domain.AssembleForest(append([]domain.Item{*it}, descendants...))
	for _, node := range forest {
		if node.ID == it.ID {
			return node, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, it *domain.Item, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	if domain.IsDomainError(cause, domain.ErrCodeNotFound) || domain.IsDomainError(cause, domain.ErrCodeInvalid) {
		return false
	}
	if err := uc.buffer.BufferItem(ctx, operation, it); err != nil {
		uc.logger.Error("failed to buffer item operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("item operation buffered", zap.String("operation", operation))
	return true
}
