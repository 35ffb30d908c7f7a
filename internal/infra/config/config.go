package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию приложения.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	PGDSN     string `envconfig:"PG_DSN"`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	Sync struct {
		Interval       time.Duration `envconfig:"SYNC_INTERVAL" default:"30s"`
		MutationDelay  time.Duration `envconfig:"SYNC_MUTATION_DELAY" default:"500ms"`
		AttemptTimeout time.Duration `envconfig:"SYNC_ATTEMPT_TIMEOUT" default:"15s"`
		PostsWindow    int           `envconfig:"SYNC_POSTS_WINDOW" default:"50"`
		MessagesWindow int           `envconfig:"SYNC_MESSAGES_WINDOW" default:"100"`
		StoryTTL       time.Duration `envconfig:"STORY_TTL" default:"24h"`
	} `envconfig:""`

	Session struct {
		Secret string        `envconfig:"SESSION_SECRET" default:"vision-dev-secret"`
		TTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	} `envconfig:""`

	// AdminEmail включает автоповышение одного аккаунта до verified+admin.
	// Пустое значение отключает правило.
	AdminEmail string `envconfig:"ADMIN_EMAIL"`

	Suggest struct {
		APIKey  string        `envconfig:"SUGGEST_API_KEY"`
		BaseURL string        `envconfig:"SUGGEST_BASE_URL"`
		Model   string        `envconfig:"SUGGEST_MODEL" default:"gpt-4o-mini"`
		Timeout time.Duration `envconfig:"SUGGEST_TIMEOUT" default:"30s"`
	} `envconfig:""`

	Queues struct {
		Backend string `envconfig:"QUEUE_BACKEND" default:"redis"`
		Sync    string `envconfig:"SYNC_QUEUE_KEY" default:"sync_jobs"`
	} `envconfig:""`

	RabbitURL           string `envconfig:"RABBITMQ_URL"`
	RabbitManagementURL string `envconfig:"RABBITMQ_MANAGEMENT_URL"`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
