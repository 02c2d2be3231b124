package item

import (
	"context"

	"github.com/nestdo/backend/domain"
)

// The checks below are the validation half of the tree core. None of them
// mutate anything; each returns nil or the taxonomy error the caller
// surfaces unchanged.

// requireListOwner resolves the list and checks the actor owns it.
func (uc *UseCase) requireListOwner(ctx context.Context, actorID, listID string) (*domain.List, error) {
	list, err := uc.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.OwnedBy(actorID) {
		return nil, domain.ErrForbidden
	}
	return list, nil
}

// requireItemOwner resolves the item and checks the actor owns its list.
// Ownership of an item is transitive through the list.
func (uc *UseCase) requireItemOwner(ctx context.Context, actorID, itemID string) (*domain.Item, error) {
	it, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.requireListOwner(ctx, actorID, it.ListID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			// The list vanished under the item; hide the item too.
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// resolveParent validates that a proposed parent exists and lives in listID.
func (uc *UseCase) resolveParent(ctx context.Context, parentID, listID string) (*domain.Item, error) {
	parent, err := uc.items.GetByID(ctx, parentID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrParentNotFound
		}
		return nil, err
	}
	if parent.ListID != listID {
		return nil, domain.ErrCrossListParent
	}
	return parent, nil
}

// checkNoCycle rejects a re-parent that would place itemID under itself or
// under any of its own descendants. descendants is the precomputed subtree
// of itemID.
func checkNoCycle(itemID, proposedParentID string, descendants []domain.Item) error {
	if itemID == proposedParentID {
		return domain.ErrCycleDetected
	}
	for i := range descendants {
		if descendants[i].ID == proposedParentID {
			return domain.ErrCycleDetected
		}
	}
	return nil
}

// checkDepth rejects placements that would push any node of the moved
// subtree past the configured cap. parentDepth is the depth of the proposed
// parent (-1 for a root placement) and height the relative height of the
// moved subtree (0 for a single item). A cap of 0 disables the check.
func (uc *UseCase) checkDepth(parentDepth, height int) error {
	if uc.maxDepth <= 0 {
		return nil
	}
	if parentDepth+1+height > uc.maxDepth-1 {
		return domain.ErrMaxDepthExceeded
	}
	return nil
}

// depthOf computes an item's depth by walking to its root. The visited set
// turns a corrupt parent chain into a terminating error instead of a spin.
func (uc *UseCase) depthOf(ctx context.Context, it *domain.Item) (int, error) {
	depth := 0
	seen := map[string]struct{}{it.ID: {}}
	current := it
	for current.ParentID != nil {
		parent, err := uc.items.GetByID(ctx, *current.ParentID)
		if err != nil {
			return 0, err
		}
		if _, ok := seen[parent.ID]; ok {
			return 0, domain.WrapError(domain.ErrCodeCycle, "corrupt parent chain", nil)
		}
		seen[parent.ID] = struct{}{}
		depth++
		current = parent
	}
	return depth, nil
}

// subtreeHeight computes the relative height of rootID's subtree from its
// flat descendant set: 0 when the item is a leaf.
func subtreeHeight(rootID string, descendants []domain.Item) int {
	if len(descendants) == 0 {
		return 0
	}
	childIDs := make(map[string][]string, len(descendants))
	for i := range descendants {
		if descendants[i].ParentID == nil {
			continue
		}
		pid := *descendants[i].ParentID
		childIDs[pid] = append(childIDs[pid], descendants[i].ID)
	}

	type frame struct {
		id    string
		depth int
	}
	height := 0
	stack := []frame{{rootID, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > height {
			height = f.depth
		}
		for _, child := range childIDs[f.id] {
			stack = append(stack, frame{child, f.depth + 1})
		}
	}
	return height
}
