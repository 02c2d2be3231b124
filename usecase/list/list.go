package list

import (
	"context"

	"go.uber.org/zap"

	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/repository"
	"github.com/nestdo/backend/usecase"
)

// UseCase implements list CRUD and the bulk complete-all operation. Lists
// are plain records; the tree logic lives in the item use case.
type UseCase struct {
	lists  repository.ListRepository
	items  repository.ItemRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(lists repository.ListRepository, items repository.ItemRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		lists:  lists,
		items:  items,
		buffer: buffer,
		logger: logger,
	}
}

func (uc *UseCase) Create(ctx context.Context, actorID, title, description string) (*domain.List, error) {
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	return uc.lists.Create(ctx, &domain.List{
		UserID:      actorID,
		Title:       title,
		Description: description,
	})
}

func (uc *UseCase) ListMine(ctx context.Context, actorID string) ([]domain.List, error) {
	return uc.lists.ListByUser(ctx, actorID)
}

func (uc *UseCase) Get(ctx context.Context, actorID, listID string) (*domain.List, error) {
	return uc.requireOwner(ctx, actorID, listID)
}

// Update changes title and/or description; nil means leave unchanged.
// Ownership is immutable after creation.
func (uc *UseCase) Update(ctx context.Context, actorID, listID string, title, description *string) (*domain.List, error) {
	list, err := uc.requireOwner(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		if *title == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
		}
		list.Title = *title
	}
	if description != nil {
		list.Description = *description
	}
	if err := uc.lists.Update(ctx, list); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, list, err) {
			return list, nil
		}
		return nil, err
	}
	return list, nil
}

// Delete removes the list; the store cascades to every item in it.
func (uc *UseCase) Delete(ctx context.Context, actorID, listID string) error {
	if _, err := uc.requireOwner(ctx, actorID, listID); err != nil {
		return err
	}
	if err := uc.lists.Delete(ctx, listID); err != nil {
		return err
	}
	uc.logger.Debug("list deleted", zap.String("list_id", listID))
	return nil
}

// CompleteAll marks every item in the list complete, bypassing the per-node
// cascade since the end state is uniform. Returns how many items changed.
func (uc *UseCase) CompleteAll(ctx context.Context, actorID, listID string) (int, error) {
	if _, err := uc.requireOwner(ctx, actorID, listID); err != nil {
		return 0, err
	}
	count, err := uc.items.CompleteAll(ctx, listID)
	if err != nil {
		return 0, err
	}
	uc.logger.Debug("list completed",
		zap.String("list_id", listID),
		zap.Int("count", count))
	return count, nil
}

func (uc *UseCase) requireOwner(ctx context.Context, actorID, listID string) (*domain.List, error) {
	list, err := uc.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.OwnedBy(actorID) {
		return nil, domain.ErrForbidden
	}
	return list, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, list *domain.List, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	if domain.IsDomainError(cause, domain.ErrCodeNotFound) || domain.IsDomainError(cause, domain.ErrCodeInvalid) {
		return false
	}
	if err := uc.buffer.BufferList(ctx, operation, list); err != nil {
		uc.logger.Error("failed to buffer list operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("list operation buffered", zap.String("operation", operation))
	return true
}
