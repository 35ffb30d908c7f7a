package state

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"vision-app/internal/domain"
)

func storeWithPost(t *testing.T, p domain.Post) *Store {
	t.Helper()
	store := NewStore(newMemKV(), zerolog.Nop())
	store.PrependPost(p)
	return store
}

func TestToggleLikeAddsAndRemoves(t *testing.T) {
	store := storeWithPost(t, domain.Post{ID: "p1", Likes: []string{}})

	post, err := store.ToggleLike("p1", "alice")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(post.Likes) != 1 || post.Likes[0] != "alice" {
		t.Fatalf("ожидали лайк от alice: %v", post.Likes)
	}

	post, err = store.ToggleLike("p1", "alice")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(post.Likes) != 0 {
		t.Fatalf("повторный лайк должен сниматься: %v", post.Likes)
	}
}

func TestToggleLikeNeverDuplicates(t *testing.T) {
	store := storeWithPost(t, domain.Post{ID: "p1", Likes: []string{"alice", "bob"}})

	post, err := store.ToggleLike("p1", "alice")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	for _, id := range post.Likes {
		if id == "alice" {
			t.Fatalf("лайк alice должен сняться, а не задвоиться: %v", post.Likes)
		}
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	if _, err := store.ToggleLike("missing", "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func TestAppendCommentKeepsOrderAndSkipsDuplicates(t *testing.T) {
	store := storeWithPost(t, domain.Post{ID: "p1"})

	if _, err := store.AppendComment("p1", domain.Comment{ID: "c1", Text: "первый"}); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, err := store.AppendComment("p1", domain.Comment{ID: "c2", Text: "второй"}); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	post, err := store.AppendComment("p1", domain.Comment{ID: "c1", Text: "повтор"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(post.Comments) != 2 {
		t.Fatalf("повторный id комментария должен игнорироваться: %v", post.Comments)
	}
	if post.Comments[0].ID != "c1" || post.Comments[1].ID != "c2" {
		t.Fatalf("комментарии должны сохранять порядок добавления: %v", post.Comments)
	}
}

func TestCountersIncrement(t *testing.T) {
	store := storeWithPost(t, domain.Post{ID: "p1"})
	if err := store.IncrementViews("p1"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if err := store.IncrementShares("p1"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	posts := store.Posts()
	if posts[0].Views != 1 || posts[0].Shares != 1 {
		t.Fatalf("счётчики должны увеличиться: views=%d shares=%d", posts[0].Views, posts[0].Shares)
	}
}

func TestRemovePost(t *testing.T) {
	store := storeWithPost(t, domain.Post{ID: "p1"})
	if err := store.RemovePost("p1"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(store.Posts()) != 0 {
		t.Fatalf("пост должен исчезнуть из локальной коллекции")
	}
	if err := store.RemovePost("p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("повторное удаление должно вернуть ErrNotFound, получили %v", err)
	}
}

func TestMarkStoryViewed(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.PrependStory(domain.Story{ID: "s1"})

	if err := store.MarkStoryViewed("s1"); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	stories := store.Stories()
	if !stories[0].Viewed || stories[0].Views != 1 {
		t.Fatalf("сторис должна стать просмотренной: %+v", stories[0])
	}
}

func TestMarkMessagesRead(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.AppendMessage(domain.Message{ID: "m1", SenderID: "bob", ReceiverID: "alice"})
	store.AppendMessage(domain.Message{ID: "m2", SenderID: "alice", ReceiverID: "bob"})
	store.AppendMessage(domain.Message{ID: "m3", SenderID: "bob", ReceiverID: "alice", Read: true})

	if changed := store.MarkMessagesRead("bob", "alice"); changed != 1 {
		t.Fatalf("ожидали 1 затронутое сообщение, получили %d", changed)
	}
	for _, m := range store.Messages() {
		if m.SenderID == "bob" && m.ReceiverID == "alice" && !m.Read {
			t.Fatalf("входящее от bob должно стать прочитанным: %+v", m)
		}
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.SetSessionUser(domain.User{ID: "alice", Name: "Alice", Bio: "старое"})

	bio := "новое био"
	user, err := store.UpdateProfile(ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if user.Bio != "новое био" {
		t.Fatalf("био должно обновиться: %q", user.Bio)
	}
	if user.Name != "Alice" {
		t.Fatalf("непереданные поля должны сохраниться: %q", user.Name)
	}
}

func TestUpdateProfileWithoutSession(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	if _, err := store.UpdateProfile(ProfileUpdate{}); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("ожидали ErrNoSession, получили %v", err)
	}
}

func TestRequestCertification(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.SetSessionUser(domain.User{ID: "alice", CertificationStatus: domain.CertificationNone})

	user, err := store.RequestCertification(domain.CertificationData{Category: "artist", Reason: "портфолио"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if user.CertificationStatus != domain.CertificationPending {
		t.Fatalf("статус должен стать pending, получили %q", user.CertificationStatus)
	}
	if user.CertificationData == nil || user.CertificationData.Category != "artist" {
		t.Fatalf("данные заявки должны сохраниться: %+v", user.CertificationData)
	}
}

func TestToggleFollowUpdatesBothSides(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.SetSessionUser(domain.User{ID: "alice", Following: []string{}})
	store.Replace(domain.CollectionUsers, []domain.Document{
		{"id": "bob", "followers": []any{}},
	})

	user, err := store.ToggleFollow("bob")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(user.Following) != 1 || user.Following[0] != "bob" {
		t.Fatalf("alice должна подписаться на bob: %v", user.Following)
	}
	for _, u := range store.Users() {
		if u.ID == "bob" && (len(u.Followers) != 1 || u.Followers[0] != "alice") {
			t.Fatalf("у bob должен появиться подписчик alice: %v", u.Followers)
		}
	}

	user, err = store.ToggleFollow("bob")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(user.Following) != 0 {
		t.Fatalf("повторное переключение должно снять подписку: %v", user.Following)
	}
}

func TestResolveReport(t *testing.T) {
	store := NewStore(newMemKV(), zerolog.Nop())
	store.AppendReport(domain.Report{ID: "r1", PostID: "p1", Reason: "спам"})

	if err := store.ResolveReport("r1", true); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	reports := store.Reports()
	if !reports[0].Resolved || !reports[0].Accepted {
		t.Fatalf("жалоба должна закрыться с решением: %+v", reports[0])
	}
	if err := store.ResolveReport("missing", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}
