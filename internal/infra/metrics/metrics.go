package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	SyncCycleSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sync_cycle_seconds",
		Help:    "Длительность одного цикла синхронизации",
		Buckets: prometheus.DefBuckets,
	})
	SyncCollectionErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_collection_errors_total",
		Help: "Ошибки чтения коллекций за цикл",
	}, []string{"collection"})
	SyncMergedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_merged_records_total",
		Help: "Количество записей после слияния по коллекциям",
	}, []string{"collection"})
	SyncPushedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_pushed_records_total",
		Help: "Количество локальных записей, отправленных наверх",
	}, []string{"collection"})
	SyncCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_cycles_total",
		Help: "Количество циклов синхронизации по причинам",
	}, []string{"cause"})
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "state_mutations_total",
		Help: "Количество локальных мутаций состояния",
	}, []string{"action"})
	LocalStateCorruptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "local_state_corruptions_total",
		Help: "Повреждённые значения в клиентском хранилище",
	}, []string{"key"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации подсказки LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		SyncCycleSeconds,
		SyncCollectionErrors,
		SyncMergedRecords,
		SyncPushedRecords,
		SyncCyclesTotal,
		MutationsTotal,
		LocalStateCorruptions,
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration записывает длительность и токены генерации LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// ObserveCycle записывает длительность цикла синхронизации.
func ObserveCycle(cause string, start time.Time) {
	SyncCycleSeconds.Observe(time.Since(start).Seconds())
	SyncCyclesTotal.WithLabelValues(cause).Inc()
}

// IncMutation увеличивает счётчик локальных мутаций.
func IncMutation(action string) {
	MutationsTotal.WithLabelValues(action).Inc()
}
