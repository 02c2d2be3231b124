package item

import (
	"context"

	"github.com/nestdo/backend/domain"
)

// Completion state moves in two directions: an explicit toggle cascades down
// the whole subtree, and every change re-evaluates the ancestor chain upward.
// All walks are iterative and bounded by the tree size.

// ancestorsOf returns the parent chain of it from closest to root. The
// visited guard makes a corrupt chain terminate with an error.
func (uc *UseCase) ancestorsOf(ctx context.Context, it *domain.Item) ([]domain.Item, error) {
	var chain []domain.Item
	seen := map[string]struct{}{it.ID: {}}
	current := it
	for current.ParentID != nil {
		parent, err := uc.items.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[parent.ID]; ok {
			return nil, domain.WrapError(domain.ErrCodeCycle, "corrupt parent chain", nil)
		}
		seen[parent.ID] = struct{}{}
		chain = append(chain, *parent)
		current = parent
	}
	return chain, nil
}

// completeSubtree marks it and every descendant completed. Returns the ids
// whose state actually changed.
func (uc *UseCase) completeSubtree(ctx context.Context, it *domain.Item, descendants []domain.Item) ([]string, error) {
	var ids []string
	if !it.Completed {
		ids = append(ids, it.ID)
	}
	for i := range descendants {
		if !descendants[i].Completed {
			ids = append(ids, descendants[i].ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := uc.items.SetCompleted(ctx, ids, true); err != nil {
		return nil, err
	}
	return ids, nil
}

// autoCompleteUpward walks the ancestor chain of it and completes each
// ancestor whose direct children are all complete, stopping at the first
// ancestor that still has an incomplete child. Writes land before the next
// level is examined, so each read sees the previous flip. Returns changed ids.
func (uc *UseCase) autoCompleteUpward(ctx context.Context, it *domain.Item) ([]string, error) {
	chain, err := uc.ancestorsOf(ctx, it)
	if err != nil {
		return nil, err
	}

	var changed []string
	for i := range chain {
		ancestor := &chain[i]
		done, err := uc.allChildrenComplete(ctx, ancestor)
		if err != nil {
			return nil, err
		}
		if !done {
			break
		}
		if ancestor.Completed {
			continue
		}
		if err := uc.items.SetCompleted(ctx, []string{ancestor.ID}, true); err != nil {
			return nil, err
		}
		changed = append(changed, ancestor.ID)
	}
	return changed, nil
}

// uncompleteUpward clears the completed flag on every completed ancestor of
// it, stopping at the first ancestor that is already incomplete.
func (uc *UseCase) uncompleteUpward(ctx context.Context, it *domain.Item) ([]string, error) {
	chain, err := uc.ancestorsOf(ctx, it)
	if err != nil {
		return nil, err
	}

	var ids []string
	for i := range chain {
		if !chain[i].Completed {
			break
		}
		ids = append(ids, chain[i].ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := uc.items.SetCompleted(ctx, ids, false); err != nil {
		return nil, err
	}
	return ids, nil
}

// recomputeUpward re-derives completion along the chain starting at from
// (inclusive) after tree membership changed, e.g. on a move. A level with
// children becomes complete exactly when all of them are complete; childless
// levels keep their explicit state. The walk stops at the first level whose
// state did not change.
func (uc *UseCase) recomputeUpward(ctx context.Context, from *domain.Item) ([]string, error) {
	var changed []string

	current := *from
	for {
		children, err := uc.items.ChildrenOf(ctx, current.ListID, &current.ID)
		if err != nil {
			return nil, err
		}

		desired := current.Completed
		if len(children) > 0 {
			desired = true
			for i := range children {
				if !children[i].Completed {
					desired = false
					break
				}
			}
		}

		if desired == current.Completed {
			break
		}
		if err := uc.items.SetCompleted(ctx, []string{current.ID}, desired); err != nil {
			return nil, err
		}
		changed = append(changed, current.ID)

		if current.ParentID == nil {
			break
		}
		parent, err := uc.items.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		current = *parent
	}
	return changed, nil
}

// allChildrenComplete reports whether every direct child of it is completed.
// True when childless.
func (uc *UseCase) allChildrenComplete(ctx context.Context, it *domain.Item) (bool, error) {
	children, err := uc.items.ChildrenOf(ctx, it.ListID, &it.ID)
	if err != nil {
		return false, err
	}
	for i := range children {
		if !children[i].Completed {
			return false, nil
		}
	}
	return true, nil
}
