package reconcile

import (
	"context"
	"errors"
	"time"

	"vision-app/internal/domain"
)

// Run гоняет циклы на всё время жизни аутентифицированной сессии:
// один сразу, дальше по таймеру. Завершается с отменой контекста.
// Зависший цикл не останавливает таймер: каждый цикл запускается независимо,
// а не один вечный await.
func (e *Engine) Run(ctx context.Context) {
	e.Cycle(ctx, domain.SyncCauseSessionStart)
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go e.Cycle(ctx, domain.SyncCauseInterval)
		}
	}
}

// RunWorker обслуживает очередь внеочередных задач синхронизации.
func (e *Engine) RunWorker(ctx context.Context) {
	if e.queue == nil {
		return
	}
	for {
		job, err := e.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			e.log.Error().Err(err).Msg("sync: ошибка чтения очереди")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if wait := time.Until(job.NotBefore); wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
		e.Cycle(ctx, job.Cause)
	}
}
