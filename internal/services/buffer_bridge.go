package services

import (
	"context"
	"encoding/json"

	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/internal/infrastructure/buffer"
	"github.com/nestdo/backend/usecase"
)

// BufferBridge adapts the buffer processor to the usecase.OperationBuffer
// port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferList(ctx context.Context, operation string, list *domain.List) error {
	if b.processor == nil || list == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	entry := buffer.Entry{
		ID:        list.ID,
		UserID:    list.UserID,
		Entity:    buffer.EntityList,
		Operation: operation,
		Data:      payload,
		Priority:  3,
	}
	return b.processor.BufferOperation(ctx, entry)
}

func (b *BufferBridge) BufferItem(ctx context.Context, operation string, item *domain.Item) error {
	if b.processor == nil || item == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	entry := buffer.Entry{
		ID:        item.ID,
		Entity:    buffer.EntityItem,
		Operation: operation,
		Data:      payload,
		Priority:  4,
	}
	return b.processor.BufferOperation(ctx, entry)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
