package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	httpinfra "vision-app/internal/infra/http"
	"vision-app/internal/usecase/reconcile"
	"vision-app/internal/usecase/state"
)

// Manager владеет жизненным циклом сессии: создаёт пользователя при
// входе, запускает цикл синхронизации и останавливает его при выходе.
// Аутентификация заглушена: принимаются любые учётные данные.
type Manager struct {
	store  *state.Store
	engine *reconcile.Engine
	secret string
	ttl    time.Duration
	log    zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewManager создаёт менеджер сессий.
func NewManager(store *state.Store, engine *reconcile.Engine, secret string, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{store: store, engine: engine, secret: secret, ttl: ttl, log: logger}
}

// Credentials описывает форму входа. Пароль не проверяется.
type Credentials struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Login создаёт или возобновляет сессию и запускает синхронизацию.
// Идентификатор пользователя выводится из локальной части email.
func (m *Manager) Login(ctx context.Context, creds Credentials) (domain.User, string, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return domain.User{}, "", fmt.Errorf("email обязателен: %w", domain.ErrValidation)
	}

	id := strings.SplitN(email, "@", 2)[0]
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	user, ok := m.store.SessionUser()
	if !ok || user.ID != id {
		name := strings.TrimSpace(creds.FirstName + " " + creds.LastName)
		if name == "" {
			name = id
		}
		user = domain.User{
			ID:                  id,
			FirstName:           creds.FirstName,
			LastName:            creds.LastName,
			Name:                name,
			Username:            id,
			Avatar:              "https://picsum.photos/seed/" + email + "/200/200",
			Email:               email,
			CertificationStatus: domain.CertificationNone,
			Followers:           []string{},
			Following:           []string{},
		}
	}
	m.store.SetSessionUser(user)

	token, err := httpinfra.IssueSessionToken(m.secret, user.ID, m.ttl)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("выпуск токена: %w", err)
	}

	m.startLoop()
	m.log.Info().Str("user", user.ID).Msg("session: вход выполнен")
	return user, token, nil
}

// Resume перезапускает синхронизацию для сессии, пережившей рестарт.
func (m *Manager) Resume(ctx context.Context) bool {
	user, ok := m.store.SessionUser()
	if !ok {
		return false
	}
	m.startLoop()
	m.log.Info().Str("user", user.ID).Msg("session: сессия восстановлена")
	return true
}

// Logout останавливает синхронизацию и забывает пользователя сессии.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()
	m.store.ClearSession()
	m.log.Info().Msg("session: выход выполнен")
}

// Close останавливает фоновые циклы при завершении приложения,
// не трогая сохранённую сессию.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) startLoop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		// Цикл уже идёт: повторный вход в той же сессии.
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.engine.Run(ctx)
	go m.engine.RunWorker(ctx)
}
