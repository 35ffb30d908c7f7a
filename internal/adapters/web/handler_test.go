package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vision-app/internal/adapters/suggest"
	"vision-app/internal/domain"
	"vision-app/internal/usecase/guard"
	"vision-app/internal/usecase/reconcile"
	"vision-app/internal/usecase/session"
	"vision-app/internal/usecase/state"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

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

type stubRemote struct{}

func (stubRemote) FetchRecent(context.Context, domain.Collection, domain.FetchWindow) ([]domain.Document, error) {
	return nil, nil
}

func (stubRemote) UpsertMany(context.Context, domain.Collection, []domain.Document) error {
	return nil
}

type testEnv struct {
	router chi.Router
	store  *state.Store
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := state.NewStore(newMemKV(), zerolog.Nop())
	engine := reconcile.NewEngine(store, stubRemote{}, nil, nil, reconcile.Config{
		Interval:       time.Hour,
		AttemptTimeout: time.Second,
		PostsWindow:    50,
		MessagesWindow: 100,
		StoryTTL:       24 * time.Hour,
	}, zerolog.Nop())
	sessions := session.NewManager(store, engine, "test-secret", time.Hour, zerolog.Nop())
	t.Cleanup(sessions.Close)
	guardSvc := guard.NewService(store, zerolog.Nop())
	handler := NewHandler(store, engine, sessions, guardSvc, suggest.NewSimple(), "test-secret", 24*time.Hour, zerolog.Nop())

	router := chi.NewRouter()
	handler.Register(router)

	env := &testEnv{router: router, store: store}
	resp := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "marie@vision.app"})
	if resp.Code != http.StatusOK {
		t.Fatalf("вход должен отвечать 200, получили %d: %s", resp.Code, resp.Body)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &login); err != nil {
		t.Fatalf("не удалось декодировать ответ входа: %v", err)
	}
	env.token = login.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("не удалось закодировать тело: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	if resp := env.do(t, http.MethodGet, "/api/v1/posts", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("без токена ожидали 401, получили %d", resp.Code)
	}
	if resp := env.do(t, http.MethodGet, "/api/v1/posts", "not-a-token", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("с мусорным токеном ожидали 401, получили %d", resp.Code)
	}
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/v1/posts", env.token, map[string]string{
		"type":       "image",
		"contentUrl": "https://cdn.example.com/a.jpg",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("пост без подписи должен отклоняться с 400, получили %d", resp.Code)
	}
	resp = env.do(t, http.MethodPost, "/api/v1/posts", env.token, map[string]string{
		"type":       "hologram",
		"contentUrl": "https://cdn.example.com/a.jpg",
		"caption":    "x",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("неизвестный тип должен отклоняться с 400, получили %d", resp.Code)
	}
}

func TestCreateAndListPosts(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/v1/posts", env.token, map[string]string{
		"type":       "image",
		"contentUrl": "https://cdn.example.com/a.jpg",
		"caption":    "первый пост",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("ожидали 201, получили %d: %s", resp.Code, resp.Body)
	}

	list := env.do(t, http.MethodGet, "/api/v1/posts", env.token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", list.Code)
	}
	var posts []domain.Post
	if err := json.Unmarshal(list.Body.Bytes(), &posts); err != nil {
		t.Fatalf("не удалось декодировать ленту: %v", err)
	}
	if len(posts) != 1 || posts[0].Caption != "первый пост" {
		t.Fatalf("созданный пост должен появиться в ленте: %v", posts)
	}
	if posts[0].Author.ID != "marie" {
		t.Fatalf("автором должен стать пользователь сессии, получили %q", posts[0].Author.ID)
	}
}

func TestLikeAndCommentPost(t *testing.T) {
	env := newTestEnv(t)
	env.store.PrependPost(domain.Post{ID: "p1", Likes: []string{}})

	resp := env.do(t, http.MethodPost, "/api/v1/posts/p1/like", env.token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", resp.Code)
	}
	var post domain.Post
	if err := json.Unmarshal(resp.Body.Bytes(), &post); err != nil {
		t.Fatalf("не удалось декодировать пост: %v", err)
	}
	if !post.LikedBy("marie") {
		t.Fatalf("лайк пользователя сессии должен появиться: %v", post.Likes)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/posts/p1/comments", env.token, map[string]string{"text": "отлично"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("ожидали 201, получили %d", resp.Code)
	}
	resp = env.do(t, http.MethodPost, "/api/v1/posts/p1/comments", env.token, map[string]string{"text": "  "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("пустой комментарий должен отклоняться с 400, получили %d", resp.Code)
	}
}

func TestRemovePostRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.store.PrependPost(domain.Post{ID: "p1"})

	if resp := env.do(t, http.MethodDelete, "/api/v1/posts/p1", env.token, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("не-админ должен получить 403, получили %d", resp.Code)
	}

	user, _ := env.store.SessionUser()
	user.IsAdmin = true
	env.store.SetSessionUser(user)
	if resp := env.do(t, http.MethodDelete, "/api/v1/posts/p1", env.token, nil); resp.Code != http.StatusNoContent {
		t.Fatalf("админ должен удалить пост, получили %d", resp.Code)
	}
}

func TestStoriesHideExpired(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UnixMilli()
	env.store.PrependStory(domain.Story{ID: "fresh", Timestamp: now})
	env.store.PrependStory(domain.Story{ID: "stale", Timestamp: now - (25 * time.Hour).Milliseconds()})

	resp := env.do(t, http.MethodGet, "/api/v1/stories", env.token, nil)
	var stories []domain.Story
	if err := json.Unmarshal(resp.Body.Bytes(), &stories); err != nil {
		t.Fatalf("не удалось декодировать сторис: %v", err)
	}
	if len(stories) != 1 || stories[0].ID != "fresh" {
		t.Fatalf("истёкшая сторис не должна показываться: %v", stories)
	}
}

func TestSendAndListMessagesPerPeer(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/v1/messages", env.token, map[string]string{
		"receiverId": "bob",
		"content":    "привет",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("ожидали 201, получили %d", resp.Code)
	}
	env.store.AppendMessage(domain.Message{ID: "m2", SenderID: "carol", ReceiverID: "marie", Content: "другое"})

	list := env.do(t, http.MethodGet, "/api/v1/messages?peer=bob", env.token, nil)
	var msgs []domain.Message
	if err := json.Unmarshal(list.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("не удалось декодировать сообщения: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ReceiverID != "bob" {
		t.Fatalf("фильтр по собеседнику должен оставить только диалог с bob: %v", msgs)
	}
}

func TestReportFlow(t *testing.T) {
	env := newTestEnv(t)
	env.store.PrependPost(domain.Post{ID: "p1", Caption: "спорный"})

	resp := env.do(t, http.MethodPost, "/api/v1/reports", env.token, map[string]string{
		"postId": "p1",
		"reason": "спам",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("ожидали 201, получили %d: %s", resp.Code, resp.Body)
	}

	if resp := env.do(t, http.MethodGet, "/api/v1/admin/reports", env.token, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("журнал жалоб без прав админа должен отвечать 403, получили %d", resp.Code)
	}

	user, _ := env.store.SessionUser()
	user.IsAdmin = true
	env.store.SetSessionUser(user)
	list := env.do(t, http.MethodGet, "/api/v1/admin/reports", env.token, nil)
	var reports []domain.Report
	if err := json.Unmarshal(list.Body.Bytes(), &reports); err != nil {
		t.Fatalf("не удалось декодировать жалобы: %v", err)
	}
	if len(reports) != 1 || reports[0].PostCaption != "спорный" {
		t.Fatalf("жалоба должна нести снимок поста: %v", reports)
	}
}

func TestSuggestFallbackHashtags(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/suggest/hashtags?caption=закат", env.token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", resp.Code)
	}
	var out struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("не удалось декодировать подсказки: %v", err)
	}
	if len(out.Hashtags) == 0 || out.Hashtags[0] != "#vision" {
		t.Fatalf("без ключа API должны возвращаться статические хэштеги: %v", out.Hashtags)
	}
}

func TestSettingsValidation(t *testing.T) {
	env := newTestEnv(t)
	if resp := env.do(t, http.MethodPut, "/api/v1/settings/theme", env.token, map[string]string{"theme": "neon"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("неизвестная тема должна отклоняться с 400, получили %d", resp.Code)
	}
	if resp := env.do(t, http.MethodPut, "/api/v1/settings/theme", env.token, map[string]string{"theme": "dark"}); resp.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", resp.Code)
	}
	if env.store.Theme() != "dark" {
		t.Fatalf("тема должна сохраниться, получили %q", env.store.Theme())
	}
}

func TestStateSnapshot(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/v1/state", env.token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", resp.Code)
	}
	var snapshot struct {
		User     domain.User `json:"user"`
		Theme    string      `json:"theme"`
		Language string      `json:"language"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("не удалось декодировать снимок: %v", err)
	}
	if snapshot.User.ID != "marie" {
		t.Fatalf("снимок должен содержать пользователя сессии: %+v", snapshot.User)
	}
	if snapshot.Language != "fr" {
		t.Fatalf("язык по умолчанию fr, получили %q", snapshot.Language)
	}
}
