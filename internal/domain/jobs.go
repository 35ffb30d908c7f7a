package domain

import (
	"context"
	"time"
)

// SyncCause описывает источник запроса на цикл синхронизации.
type SyncCause string

const (
	// SyncCauseSessionStart означает цикл при входе в сессию.
	SyncCauseSessionStart SyncCause = "session_start"
	// SyncCauseInterval означает цикл по таймеру.
	SyncCauseInterval SyncCause = "interval"
	// SyncCauseMutation означает цикл вскоре после локальной мутации.
	SyncCauseMutation SyncCause = "mutation"
	// SyncCauseManual означает цикл, запрошенный вручную через API.
	SyncCauseManual SyncCause = "manual"
)

// SyncJob содержит информацию о задаче на цикл синхронизации.
type SyncJob struct {
	ID          string    `json:"job_id,omitempty"`
	Cause       SyncCause `json:"cause"`
	RequestedAt time.Time `json:"requested_at"`
	// NotBefore откладывает выполнение: мутации сливаются наверх
	// с небольшой задержкой, а не мгновенно.
	NotBefore time.Time `json:"not_before,omitempty"`
}

// SyncQueue абстрагирует очередь задач на синхронизацию.
type SyncQueue interface {
	Enqueue(ctx context.Context, job SyncJob) error
	// Pop блокирующе читает задачу из очереди.
	Pop(ctx context.Context) (SyncJob, error)
}
