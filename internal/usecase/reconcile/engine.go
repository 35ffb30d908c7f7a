package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	"vision-app/internal/infra/metrics"
)

// LocalState описывает ту часть локального состояния, которая нужна движку.
type LocalState interface {
	Documents(col domain.Collection) []domain.Document
	Replace(col domain.Collection, docs []domain.Document)
	ApplyPromotion(policy domain.PromotionPolicy)
}

// Config задаёт окна и расписание синхронизации.
type Config struct {
	Interval       time.Duration
	MutationDelay  time.Duration
	AttemptTimeout time.Duration
	PostsWindow    int
	MessagesWindow int
	StoryTTL       time.Duration
}

// Engine выполняет цикл сверки: чтение окна каждой коллекции, слияние с
// локальной копией, публикация результата и отправка наверх записей,
// которых удалённая сторона ещё не видела. Коллекции сверяются
// независимо; неудача одной не трогает остальные.
type Engine struct {
	state   LocalState
	remote  domain.RemoteStore
	queue   domain.SyncQueue
	promote domain.PromotionPolicy
	cfg     Config
	log     zerolog.Logger

	// Сверки одной коллекции сериализованы: перекрывающиеся циклы
	// сходились бы к тому же результату, но тратили бы запросы.
	colMu map[domain.Collection]*sync.Mutex
	now   func() time.Time
}

// NewEngine создаёт движок синхронизации.
func NewEngine(state LocalState, remote domain.RemoteStore, queue domain.SyncQueue, promote domain.PromotionPolicy, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 15 * time.Second
	}
	if promote == nil {
		promote = domain.NopPromotion
	}
	colMu := make(map[domain.Collection]*sync.Mutex, len(domain.Collections()))
	for _, col := range domain.Collections() {
		colMu[col] = &sync.Mutex{}
	}
	return &Engine{
		state:   state,
		remote:  remote,
		queue:   queue,
		promote: promote,
		cfg:     cfg,
		log:     logger,
		colMu:   colMu,
		now:     time.Now,
	}
}

func (e *Engine) window(col domain.Collection) domain.FetchWindow {
	switch col {
	case domain.CollectionPosts:
		return domain.FetchWindow{Limit: e.cfg.PostsWindow}
	case domain.CollectionMessages:
		return domain.FetchWindow{Limit: e.cfg.MessagesWindow}
	case domain.CollectionStories:
		return domain.FetchWindow{Since: e.now().Add(-e.cfg.StoryTTL)}
	default:
		return domain.FetchWindow{}
	}
}

// bound задаёт предел усечения после слияния, тот же, что у чтения.
func (e *Engine) bound(col domain.Collection) int {
	switch col {
	case domain.CollectionPosts:
		return e.cfg.PostsWindow
	case domain.CollectionMessages:
		return e.cfg.MessagesWindow
	default:
		return 0
	}
}

// Cycle выполняет один цикл сверки всех коллекций. Коллекции идут
// параллельно; цикл не атомарен, частичный успех считается нормой.
func (e *Engine) Cycle(ctx context.Context, cause domain.SyncCause) {
	start := e.now()
	var wg sync.WaitGroup
	for _, col := range domain.Collections() {
		wg.Add(1)
		go func(col domain.Collection) {
			defer wg.Done()
			e.reconcileCollection(ctx, col)
		}(col)
	}
	wg.Wait()
	// Политика повышения применяется после публикации, иначе слияние
	// сотрёт её эффект полями удалённой копии.
	e.state.ApplyPromotion(e.promote)
	metrics.ObserveCycle(string(cause), start)
	e.log.Debug().Str("cause", string(cause)).Dur("took", e.now().Sub(start)).Msg("sync: цикл завершён")
}

func (e *Engine) reconcileCollection(ctx context.Context, col domain.Collection) {
	mu := e.colMu[col]
	mu.Lock()
	defer mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.AttemptTimeout)
	defer cancel()

	local := e.state.Documents(col)
	remote, err := e.remote.FetchRecent(ctx, col, e.window(col))
	if err != nil {
		// «Данных в этом цикле нет»: локальная копия остаётся как есть.
		metrics.SyncCollectionErrors.WithLabelValues(string(col)).Inc()
		e.log.Warn().Str("collection", string(col)).Err(err).Msg("sync: чтение коллекции пропущено")
		return
	}

	merged := MergeWindow(local, remote, e.bound(col))
	e.state.Replace(col, merged)
	metrics.SyncMergedRecords.WithLabelValues(string(col)).Add(float64(len(merged)))

	pending := LocalOnly(local, remote)
	if len(pending) == 0 {
		return
	}
	// Вставка без перезаписи: запись, которая уже есть наверху, не
	// будет затёрта устаревшей локальной копией.
	if err := e.remote.UpsertMany(ctx, col, pending); err != nil {
		e.log.Warn().Str("collection", string(col)).Err(err).Msg("sync: отправка наверх не удалась")
		return
	}
	metrics.SyncPushedRecords.WithLabelValues(string(col)).Add(float64(len(pending)))
}

// RequestSync ставит задачу на внеочередной цикл. Мутация сливается
// наверх с небольшой задержкой, а не мгновенно.
func (e *Engine) RequestSync(ctx context.Context, cause domain.SyncCause) {
	job := domain.SyncJob{
		ID:          uuid.NewString(),
		Cause:       cause,
		RequestedAt: e.now(),
	}
	if cause == domain.SyncCauseMutation && e.cfg.MutationDelay > 0 {
		job.NotBefore = e.now().Add(e.cfg.MutationDelay)
	}
	if e.queue == nil {
		go e.Cycle(context.WithoutCancel(ctx), cause)
		return
	}
	if err := e.queue.Enqueue(ctx, job); err != nil {
		e.log.Warn().Err(err).Msg("sync: не удалось поставить задачу, цикл запускается напрямую")
		go e.Cycle(context.WithoutCancel(ctx), cause)
	}
}
