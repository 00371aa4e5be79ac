package service

import (
	"context"
	"errors"
	"time"

	"github.com/deca109/TaskFlow.ai/internal/config"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

// callStore runs a directory store operation under the configured per-call
// timeout. A timed-out call gets one retry after a short backoff; if it times
// out again the caller receives a typed StoreUnavailable instead of hanging.
func callStore(ctx context.Context, cfg config.StoreConfig, op func(context.Context) error) error {
	attempt := func() error {
		opCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
		return op(opCtx)
	}

	err := attempt()
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		time.Sleep(cfg.RetryBackoff())
		err = attempt()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewStoreUnavailable(err)
	}
	return err
}
