package domain

import (
	"context"
	"time"
)

// FetchWindow ограничивает чтение коллекции из удалённого хранилища.
type FetchWindow struct {
	// Limit задаёт максимум записей, 0 означает «без ограничения».
	Limit int
	// Since отбрасывает записи старше указанного момента (для сторис).
	Since time.Time
}

// RemoteStore абстрагирует коллекции удалённого хранилища.
type RemoteStore interface {
	// FetchRecent возвращает записи коллекции, новые первыми.
	FetchRecent(ctx context.Context, col Collection, window FetchWindow) ([]Document, error)
	// UpsertMany вставляет записи, пропуская уже существующие по id.
	// Существующие записи никогда не перезаписываются.
	UpsertMany(ctx context.Context, col Collection, docs []Document) error
}

// KV абстрагирует долговременное клиентское хранилище ключ/JSON.
type KV interface {
	// Get возвращает значение ключа. При отсутствии ключа возвращается ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// SuggestionProvider выдаёт вспомогательные подсказки для контента.
// Без ключа API возвращает статические заглушки.
type SuggestionProvider interface {
	ImproveCaption(ctx context.Context, caption string) (string, error)
	SuggestHashtags(ctx context.Context, caption string) ([]string, error)
	AltText(ctx context.Context, imageURL string) (string, error)
}

// PromotionPolicy применяется к пользователю после каждого слияния.
// Возвращает изменённого пользователя и признак изменения.
// Правило автоповышения одного адреса вынесено сюда сознательно:
// это демонстрационный артефакт, а не модель авторизации.
type PromotionPolicy func(User) (User, bool)

// NopPromotion реализует политику без повышений.
func NopPromotion(u User) (User, bool) { return u, false }
