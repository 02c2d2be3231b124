package usecase

import (
	"context"

	"github.com/nestdo/backend/domain"
)

// Buffer operation names shared with the buffer processor.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. Only non-cascading writes are ever buffered; hierarchy
// mutations need live reads for their validations and fail fast instead.
type OperationBuffer interface {
	BufferList(ctx context.Context, operation string, list *domain.List) error
	BufferItem(ctx context.Context, operation string, item *domain.Item) error
}
