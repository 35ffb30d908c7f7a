package guard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"vision-app/internal/domain"
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

func newTestService(t *testing.T) (*Service, *state.Store) {
	t.Helper()
	store := state.NewStore(newMemKV(), zerolog.Nop())
	return NewService(store, zerolog.Nop()), store
}

func TestReportSnapshotsPostFields(t *testing.T) {
	svc, store := newTestService(t)
	store.PrependPost(domain.Post{ID: "p1", Title: "Заголовок", Caption: "Подпись"})

	report, err := svc.Report("p1", "alice", "спам")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if report.PostTitle != "Заголовок" || report.PostCaption != "Подпись" {
		t.Fatalf("жалоба должна нести снимок поста: %+v", report)
	}
	if report.ID == "" {
		t.Fatalf("жалоба должна получить идентификатор")
	}
	if got := svc.Reports(); len(got) != 1 {
		t.Fatalf("жалоба должна попасть в журнал, получили %d", len(got))
	}
}

func TestReportValidation(t *testing.T) {
	svc, store := newTestService(t)
	store.PrependPost(domain.Post{ID: "p1"})

	if _, err := svc.Report("p1", "alice", "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("пустая причина должна отклоняться, получили %v", err)
	}
	if _, err := svc.Report("missing", "alice", "спам"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("жалоба на несуществующий пост должна вернуть ErrNotFound, получили %v", err)
	}
}

func TestResolveKeepsPost(t *testing.T) {
	svc, store := newTestService(t)
	store.PrependPost(domain.Post{ID: "p1"})
	report, err := svc.Report("p1", "alice", "спам")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}

	if err := svc.Resolve(report.ID, true); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got := svc.Reports(); !got[0].Resolved || !got[0].Accepted {
		t.Fatalf("решение должно зафиксироваться: %+v", got[0])
	}
	// Резолюция не удаляет пост: это отдельное действие админа.
	if len(store.Posts()) != 1 {
		t.Fatalf("пост должен остаться после резолюции")
	}
}

func TestRemovePost(t *testing.T) {
	svc, store := newTestService(t)
	store.PrependPost(domain.Post{ID: "p1"})

	if err := svc.RemovePost("p1"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(store.Posts()) != 0 {
		t.Fatalf("пост должен исчезнуть из локальной коллекции")
	}
}
