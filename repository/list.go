package repository

import (
	"context"

	"github.com/nestdo/backend/domain"
)

type ListRepository interface {
	GetByID(ctx context.Context, id string) (*domain.List, error)
	ListByUser(ctx context.Context, userID string) ([]domain.List, error)
	Create(ctx context.Context, list *domain.List) (*domain.List, error)
	Update(ctx context.Context, list *domain.List) error
	// Delete removes the list and, through the schema cascade, every item
	// in it.
	Delete(ctx context.Context, id string) error
}
