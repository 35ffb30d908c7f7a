package state

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	"vision-app/internal/infra/metrics"
)

// Ключи долговременного клиентского хранилища. Имена сохранены от
// предыдущего поколения клиента, чтобы переживать его данные.
const (
	KeySession  = "VISION_PERSISTENT_SESSION"
	KeyPosts    = "vision_posts"
	KeyStories  = "vision_stories"
	KeyProducts = "vision_products"
	KeyTheme    = "vision_theme"
	KeyLanguage = "vision_lang"
	KeyReports  = "vision_reports"
)

// Event сообщает подписчикам об изменении коллекции.
type Event struct {
	Collection domain.Collection `json:"collection"`
}

// Store держит локальное состояние сессии: пять коллекций плюс жалобы и
// настройки. Каждая мутация копирует срез и зеркалирует результат в
// долговременное хранилище. Сообщения живут только в памяти сессии.
type Store struct {
	mu sync.RWMutex
	kv domain.KV
	log zerolog.Logger

	sessionUser *domain.User
	users       []domain.User
	posts       []domain.Post
	stories     []domain.Story
	products    []domain.Product
	messages    []domain.Message
	reports     []domain.Report
	theme       string
	language    string

	subs    map[int]chan Event
	nextSub int
}

// NewStore создаёт состояние и регидрирует его из хранилища.
// Повреждённые или отсутствующие значения заменяются пустыми
// умолчаниями и никогда не роняют запуск.
func NewStore(kv domain.KV, logger zerolog.Logger) *Store {
	s := &Store{kv: kv, log: logger, subs: map[int]chan Event{}, theme: "light", language: "fr"}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if user, ok := loadValue[domain.User](ctx, kv, KeySession, logger); ok {
		s.sessionUser = &user
	}
	s.posts = loadSlice[domain.Post](ctx, kv, KeyPosts, logger)
	s.stories = loadSlice[domain.Story](ctx, kv, KeyStories, logger)
	s.products = loadSlice[domain.Product](ctx, kv, KeyProducts, logger)
	s.reports = loadSlice[domain.Report](ctx, kv, KeyReports, logger)
	if theme, ok := loadValue[string](ctx, kv, KeyTheme, logger); ok && theme != "" {
		s.theme = theme
	}
	if lang, ok := loadValue[string](ctx, kv, KeyLanguage, logger); ok && lang != "" {
		s.language = lang
	}
	return s
}

// loadSlice читает JSON-массив из хранилища, возвращая пустой срез
// при отсутствии ключа или кривом значении.
func loadSlice[T any](ctx context.Context, kv domain.KV, key string, logger zerolog.Logger) []T {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn().Str("key", key).Err(err).Msg("state: повреждённое значение заменено умолчанием")
		metrics.LocalStateCorruptions.WithLabelValues(key).Inc()
		return []T{}
	}
	return out
}

// loadValue читает одиночное JSON-значение из хранилища.
func loadValue[T any](ctx context.Context, kv domain.KV, key string, logger zerolog.Logger) (T, bool) {
	var out T
	data, err := kv.Get(ctx, key)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn().Str("key", key).Err(err).Msg("state: повреждённое значение заменено умолчанием")
		metrics.LocalStateCorruptions.WithLabelValues(key).Inc()
		return out, false
	}
	return out, true
}

// persist зеркалирует значение в хранилище. Ошибки записи не
// всплывают к пользователю.
func (s *Store) persist(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Str("key", key).Err(err).Msg("state: не удалось сериализовать значение")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.kv.Set(ctx, key, data); err != nil {
		s.log.Warn().Str("key", key).Err(err).Msg("state: запись в хранилище не удалась")
	}
}

// Subscribe возвращает канал событий изменения и функцию отписки.
// Медленный подписчик теряет события, но не блокирует состояние.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 16)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// notify рассылает событие. Вызывается под блокировкой.
func (s *Store) notify(col domain.Collection) {
	for _, ch := range s.subs {
		select {
		case ch <- Event{Collection: col}:
		default:
		}
	}
}

// SessionUser возвращает пользователя активной сессии.
func (s *Store) SessionUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessionUser == nil {
		return domain.User{}, false
	}
	return *s.sessionUser, true
}

// SetSessionUser фиксирует пользователя сессии и зеркалирует его.
func (s *Store) SetSessionUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionUser = &u
	s.persist(KeySession, u)
	s.notify(domain.CollectionUsers)
}

// ClearSession удаляет пользователя сессии из памяти и хранилища.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionUser = nil
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.kv.Del(ctx, KeySession); err != nil {
		s.log.Warn().Err(err).Msg("state: не удалось удалить ключ сессии")
	}
}

// Posts возвращает копию ленты.
func (s *Store) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Post(nil), s.posts...)
}

// Stories возвращает копию сторис.
func (s *Store) Stories() []domain.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Story(nil), s.stories...)
}

// Products возвращает копию товаров.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// Messages возвращает копию сообщений.
func (s *Store) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Message(nil), s.messages...)
}

// Users возвращает копию известных пользователей.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...)
}

// Reports возвращает копию жалоб.
func (s *Store) Reports() []domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Report(nil), s.reports...)
}

// Theme возвращает тему оформления.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme сохраняет тему оформления.
func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.persist(KeyTheme, theme)
}

// Language возвращает язык интерфейса.
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage сохраняет язык интерфейса.
func (s *Store) SetLanguage(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	s.persist(KeyLanguage, lang)
}

// Documents кодирует локальную последовательность коллекции для слияния.
// Для users локальная последовательность состоит из пользователя сессии плюс
// уже известные профили: только так свежая регистрация уедет наверх.
func (s *Store) Documents(col domain.Collection) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch col {
	case domain.CollectionPosts:
		return encodeDocs(s.log, s.posts)
	case domain.CollectionStories:
		return encodeDocs(s.log, s.stories)
	case domain.CollectionProducts:
		return encodeDocs(s.log, s.products)
	case domain.CollectionMessages:
		return encodeDocs(s.log, s.messages)
	case domain.CollectionUsers:
		users := s.users
		if s.sessionUser != nil {
			found := false
			for _, u := range users {
				if u.ID == s.sessionUser.ID {
					found = true
					break
				}
			}
			if !found {
				users = append([]domain.User{*s.sessionUser}, users...)
			}
		}
		return encodeDocs(s.log, users)
	default:
		return nil
	}
}

// Replace публикует слитую последовательность коллекции: состояние
// заменяется, зеркалируется и подписчики получают событие.
func (s *Store) Replace(col domain.Collection, docs []domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch col {
	case domain.CollectionPosts:
		s.posts = decodeDocs[domain.Post](s.log, docs)
		s.persist(KeyPosts, s.posts)
	case domain.CollectionStories:
		s.stories = decodeDocs[domain.Story](s.log, docs)
		s.persist(KeyStories, s.stories)
	case domain.CollectionProducts:
		s.products = decodeDocs[domain.Product](s.log, docs)
		s.persist(KeyProducts, s.products)
	case domain.CollectionMessages:
		s.messages = decodeDocs[domain.Message](s.log, docs)
	case domain.CollectionUsers:
		s.users = decodeDocs[domain.User](s.log, docs)
	default:
		return
	}
	s.notify(col)
}

// ApplyPromotion применяет политику повышения после слияния, чтобы
// правило пережило перезапись полей удалённой копией.
func (s *Store) ApplyPromotion(policy domain.PromotionPolicy) {
	if policy == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	if s.sessionUser != nil {
		if promoted, ok := policy(*s.sessionUser); ok {
			s.sessionUser = &promoted
			s.persist(KeySession, promoted)
			changed = true
		}
	}
	for i, u := range s.users {
		if promoted, ok := policy(u); ok {
			users := append([]domain.User(nil), s.users...)
			users[i] = promoted
			s.users = users
			changed = true
		}
	}
	if changed {
		s.notify(domain.CollectionUsers)
	}
}

func encodeDocs[T any](logger zerolog.Logger, items []T) []domain.Document {
	docs := make([]domain.Document, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			logger.Warn().Err(err).Msg("state: сущность не кодируется")
			continue
		}
		var doc domain.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			logger.Warn().Err(err).Msg("state: сущность не кодируется")
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

func decodeDocs[T any](logger zerolog.Logger, docs []domain.Document) []T {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			logger.Warn().Str("id", doc.ID()).Err(err).Msg("state: документ не декодируется")
			continue
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			logger.Warn().Str("id", doc.ID()).Err(err).Msg("state: документ не декодируется")
			continue
		}
		items = append(items, item)
	}
	return items
}
