package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vision-app/internal/domain"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestNewStoreCorruptedValueFallsBackToDefault(t *testing.T) {
	kv := newMemKV()
	kv.data[KeyPosts] = []byte(`{not valid json`)
	kv.data[KeyTheme] = []byte(`42`)

	store := NewStore(kv, zerolog.Nop())
	if got := store.Posts(); len(got) != 0 {
		t.Fatalf("повреждённые посты должны замениться пустым списком, получили %d", len(got))
	}
	if store.Theme() != "light" {
		t.Fatalf("повреждённая тема должна замениться умолчанием, получили %q", store.Theme())
	}
}

func TestStoreSurvivesRestart(t *testing.T) {
	kv := newMemKV()
	first := NewStore(kv, zerolog.Nop())
	first.SetSessionUser(domain.User{ID: "alice", Email: "alice@example.com"})
	first.PrependPost(domain.Post{ID: "p1", Caption: "привет", Timestamp: 100})
	first.AppendMessage(domain.Message{ID: "m1", SenderID: "bob", ReceiverID: "alice", Content: "hi"})
	first.SetLanguage("en")

	second := NewStore(kv, zerolog.Nop())
	user, ok := second.SessionUser()
	if !ok || user.ID != "alice" {
		t.Fatalf("сессия должна пережить рестарт, получили %v", user)
	}
	if posts := second.Posts(); len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("посты должны пережить рестарт: %v", posts)
	}
	// Сообщения живут только в памяти.
	if msgs := second.Messages(); len(msgs) != 0 {
		t.Fatalf("сообщения не должны зеркалироваться в хранилище: %v", msgs)
	}
	if second.Language() != "en" {
		t.Fatalf("язык должен пережить рестарт, получили %q", second.Language())
	}
}

func TestLogoutClearsPersistedSession(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, zerolog.Nop())
	store.SetSessionUser(domain.User{ID: "alice"})
	store.ClearSession()

	if _, ok := store.SessionUser(); ok {
		t.Fatalf("после выхода пользователь сессии должен исчезнуть")
	}
	if _, ok := kv.data[KeySession]; ok {
		t.Fatalf("ключ сессии должен удаляться из хранилища")
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	events, unsubscribe := store.Subscribe()
	defer unsubscribe()

	store.PrependPost(domain.Post{ID: "p1", Timestamp: 1})

	select {
	case ev := <-events:
		if ev.Collection != domain.CollectionPosts {
			t.Fatalf("ожидали событие по постам, получили %s", ev.Collection)
		}
	case <-time.After(time.Second):
		t.Fatalf("подписчик не получил событие")
	}
}

func TestDocumentsUsersIncludesSessionUser(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.SetSessionUser(domain.User{ID: "alice", Name: "Alice"})

	docs := store.Documents(domain.CollectionUsers)
	if len(docs) != 1 || docs[0].ID() != "alice" {
		t.Fatalf("пользователь сессии должен попадать в последовательность users: %v", docs)
	}
}

func TestReplacePublishesMergedCollection(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.Replace(domain.CollectionPosts, []domain.Document{
		{"id": "p1", "caption": "из слияния", "timestamp": float64(10)},
	})
	posts := store.Posts()
	if len(posts) != 1 || posts[0].Caption != "из слияния" {
		t.Fatalf("Replace должен публиковать слитые записи: %v", posts)
	}
}

func TestApplyPromotionPromotesSessionUser(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.SetSessionUser(domain.User{ID: "alice", Email: "admin@vision.app"})

	store.ApplyPromotion(func(u domain.User) (domain.User, bool) {
		if u.Email != "admin@vision.app" || u.IsAdmin {
			return u, false
		}
		u.IsAdmin = true
		u.IsVerified = true
		return u, true
	})

	user, _ := store.SessionUser()
	if !user.IsAdmin || !user.IsVerified {
		t.Fatalf("политика должна повысить пользователя сессии: %+v", user)
	}
}
