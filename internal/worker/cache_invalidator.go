package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/deca109/TaskFlow.ai/internal/events"
	"github.com/deca109/TaskFlow.ai/internal/service"
)

// StartCacheInvalidator drops cached recommendations whenever an assignment
// is created or completed. Any workload change can reorder every ranking, so
// the whole cache goes, not just the touched task.
func StartCacheInvalidator(dispatcher events.Dispatcher, cache service.RecommendationCache, logger *zap.Logger) {
	if dispatcher == nil || cache == nil {
		return
	}
	handler := func(ctx context.Context, event events.Event) error {
		if err := cache.InvalidateAll(ctx); err != nil {
			logger.Warn("recommendation cache invalidation failed",
				zap.String("event_type", string(event.Type)), zap.Error(err))
			return err
		}
		return nil
	}
	dispatcher.Subscribe(events.EventAssignmentCreated, handler)
	dispatcher.Subscribe(events.EventAssignmentCompleted, handler)
}
