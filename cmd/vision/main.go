package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"vision-app/internal/adapters/remote"
	"vision-app/internal/adapters/suggest"
	"vision-app/internal/adapters/web"
	"vision-app/internal/domain"
	"vision-app/internal/infra/config"
	"vision-app/internal/infra/db"
	httpinfra "vision-app/internal/infra/http"
	"vision-app/internal/infra/kv"
	applog "vision-app/internal/infra/log"
	"vision-app/internal/infra/metrics"
	"vision-app/internal/infra/openai"
	"vision-app/internal/infra/queue"
	"vision-app/internal/usecase/guard"
	"vision-app/internal/usecase/reconcile"
	"vision-app/internal/usecase/session"
	"vision-app/internal/usecase/state"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("vision: нет подключения к БД")
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	store := state.NewStore(kv.NewRedis(redisClient), applog.Component(logger, "state"))

	remoteStore := remote.NewPostgres(pool, applog.Component(logger, "remote"))

	var syncQueue domain.SyncQueue
	switch cfg.Queues.Backend {
	case "rabbitmq":
		syncQueue, err = queue.NewRabbitSyncQueue(cfg.RabbitURL, cfg.RabbitManagementURL, cfg.Queues.Sync)
		if err != nil {
			logger.Fatal().Err(err).Msg("vision: очередь rabbitmq недоступна")
		}
	default:
		syncQueue = queue.NewRedisSyncQueue(redisClient, cfg.Queues.Sync)
	}

	engine := reconcile.NewEngine(store, remoteStore, syncQueue, promotionFromConfig(cfg.AdminEmail), reconcile.Config{
		Interval:       cfg.Sync.Interval,
		MutationDelay:  cfg.Sync.MutationDelay,
		AttemptTimeout: cfg.Sync.AttemptTimeout,
		PostsWindow:    cfg.Sync.PostsWindow,
		MessagesWindow: cfg.Sync.MessagesWindow,
		StoryTTL:       cfg.Sync.StoryTTL,
	}, applog.Component(logger, "reconcile"))

	sessions := session.NewManager(store, engine, cfg.Session.Secret, cfg.Session.TTL, applog.Component(logger, "session"))
	defer sessions.Close()
	if sessions.Resume(ctx) {
		logger.Info().Msg("vision: синхронизация возобновлена после рестарта")
	}

	var provider domain.SuggestionProvider = suggest.NewSimple()
	if cfg.Suggest.APIKey != "" {
		llm := openai.NewClient(cfg.Suggest.APIKey, cfg.Suggest.BaseURL, cfg.Suggest.Timeout)
		provider = suggest.NewOpenAI(llm, cfg.Suggest.Model, cfg.Suggest.Timeout, applog.Component(logger, "suggest"))
	}

	guardSvc := guard.NewService(store, applog.Component(logger, "guard"))

	srv := httpinfra.NewServer(applog.Component(logger, "http"))
	handler := web.NewHandler(store, engine, sessions, guardSvc, provider, cfg.Session.Secret, cfg.Sync.StoryTTL, applog.Component(logger, "web"))
	handler.Register(srv.Router)

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("vision: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("vision: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// promotionFromConfig повышает аккаунт с указанным email до
// верифицированного админа. Пустой email выключает правило.
func promotionFromConfig(adminEmail string) domain.PromotionPolicy {
	if adminEmail == "" {
		return domain.NopPromotion
	}
	return func(u domain.User) (domain.User, bool) {
		if !strings.EqualFold(u.Email, adminEmail) {
			return u, false
		}
		if u.IsAdmin && u.IsVerified {
			return u, false
		}
		u.IsAdmin = true
		u.IsVerified = true
		return u, true
	}
}
