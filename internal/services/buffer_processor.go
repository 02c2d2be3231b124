package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nestdo/backend/domain"
	"github.com/nestdo/backend/internal/infrastructure/buffer"
	"github.com/nestdo/backend/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// BufferProcessor replays buffered list and item writes against Postgres
// once connectivity returns.
type BufferProcessor struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	listRepo repository.ListRepository
	itemRepo repository.ItemRepository
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	listRepo repository.ListRepository,
	itemRepo repository.ItemRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:    store,
		monitor:  monitor,
		listRepo: listRepo,
		itemRepo: itemRepo,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})

	return bp
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started")
}

// Stop gracefully stops the scheduler.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain processes buffered entries synchronously.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	entries, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := bp.processEntry(ctx, entry); err != nil {
			bp.logger.Error("failed to process buffer entry",
				zap.String("entry_id", entry.ID),
				zap.String("entity", entry.Entity),
				zap.Error(err))

			if entry.Retries+1 >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffer entry (max retries reached)", zap.String("entry_id", entry.ID))
				_ = bp.store.Remove(entry)
				continue
			}
			if err := bp.store.Requeue(entry); err != nil {
				bp.logger.Error("failed to requeue buffer entry", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(entry); err != nil {
			bp.logger.Warn("failed to purge processed buffer entry", zap.Error(err))
		}
	}
	return nil
}

// BufferOperation attempts to run the operation immediately and falls back to
// persisting it.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, entry buffer.Entry) error {
	if bp == nil || bp.store == nil {
		return fmt.Errorf("buffer processor not configured")
	}

	if bp.monitor == nil || bp.monitor.IsOnline() {
		if err := bp.processEntry(ctx, entry); err == nil {
			return nil
		} else {
			bp.logger.Warn("immediate processing failed, buffering", zap.Error(err))
		}
	}
	return bp.store.Enqueue(entry)
}

// Size returns the number of buffered entries.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) processEntry(ctx context.Context, entry buffer.Entry) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch entry.Entity {
	case buffer.EntityList:
		var list domain.List
		if err := json.Unmarshal(entry.Data, &list); err != nil {
			return err
		}
		switch entry.Operation {
		case buffer.OperationCreate:
			_, err := bp.listRepo.Create(ctx, &list)
			return err
		case buffer.OperationUpdate:
			return bp.listRepo.Update(ctx, &list)
		case buffer.OperationDelete:
			return bp.listRepo.Delete(ctx, list.ID)
		default:
			return fmt.Errorf("unsupported operation %s", entry.Operation)
		}

	case buffer.EntityItem:
		var item domain.Item
		if err := json.Unmarshal(entry.Data, &item); err != nil {
			return err
		}
		switch entry.Operation {
		case buffer.OperationCreate:
			_, err := bp.itemRepo.Create(ctx, &item)
			return err
		case buffer.OperationUpdate:
			return bp.itemRepo.Update(ctx, &item)
		case buffer.OperationDelete:
			_, err := bp.itemRepo.DeleteMany(ctx, []string{item.ID})
			return err
		default:
			return fmt.Errorf("unsupported operation %s", entry.Operation)
		}
	default:
		return fmt.Errorf("unsupported entity %s", entry.Entity)
	}
}
