package state

import (
	"strconv"
	"time"

	"vision-app/internal/domain"
	"vision-app/internal/infra/metrics"
)

// Мутации применяются копированием среза: подписчик, держащий старую
// копию, никогда не увидит наполовину применённого изменения.

// toggleLike добавляет лайк пользователя либо снимает уже поставленный.
// Идентификатор встречается в списке не более одного раза.
func toggleLike(posts []domain.Post, postID, userID string) ([]domain.Post, bool) {
	out := append([]domain.Post(nil), posts...)
	for i, p := range out {
		if p.ID != postID {
			continue
		}
		likes := make([]string, 0, len(p.Likes)+1)
		removed := false
		for _, id := range p.Likes {
			if id == userID {
				removed = true
				continue
			}
			likes = append(likes, id)
		}
		if !removed {
			likes = append(likes, userID)
		}
		p.Likes = likes
		out[i] = p
		return out, true
	}
	return posts, false
}

// appendComment дописывает комментарий в конец, сохраняя порядок.
// Повторный идентификатор комментария игнорируется.
func appendComment(posts []domain.Post, postID string, c domain.Comment) ([]domain.Post, bool) {
	out := append([]domain.Post(nil), posts...)
	for i, p := range out {
		if p.ID != postID {
			continue
		}
		for _, existing := range p.Comments {
			if existing.ID == c.ID {
				return out, true
			}
		}
		comments := append(append([]domain.Comment(nil), p.Comments...), c)
		p.Comments = comments
		out[i] = p
		return out, true
	}
	return posts, false
}

func bumpPost(posts []domain.Post, postID string, apply func(*domain.Post)) ([]domain.Post, bool) {
	out := append([]domain.Post(nil), posts...)
	for i := range out {
		if out[i].ID == postID {
			apply(&out[i])
			return out, true
		}
	}
	return posts, false
}

// PrependPost ставит новый пост в начало ленты.
func (s *Store) PrependPost(p domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]domain.Post{p}, s.posts...)
	s.persist(KeyPosts, s.posts)
	s.notify(domain.CollectionPosts)
	metrics.IncMutation("post_create")
}

// ToggleLike переключает лайк пользователя на посте.
func (s *Store) ToggleLike(postID, userID string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, ok := toggleLike(s.posts, postID, userID)
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts = posts
	s.persist(KeyPosts, s.posts)
	s.notify(domain.CollectionPosts)
	metrics.IncMutation("post_like")
	return s.findPost(postID), nil
}

// AppendComment добавляет комментарий к посту.
func (s *Store) AppendComment(postID string, c domain.Comment) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, ok := appendComment(s.posts, postID, c)
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	s.posts = posts
	s.persist(KeyPosts, s.posts)
	s.notify(domain.CollectionPosts)
	metrics.IncMutation("post_comment")
	return s.findPost(postID), nil
}

// IncrementViews увеличивает счётчик просмотров поста.
func (s *Store) IncrementViews(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, ok := bumpPost(s.posts, postID, func(p *domain.Post) { p.Views++ })
	if !ok {
		return domain.ErrNotFound
	}
	s.posts = posts
	s.persist(KeyPosts, s.posts)
	s.notify(domain.CollectionPosts)
	metrics.IncMutation("post_view")
	return nil
}

// IncrementShares увеличивает счётчик репостов.
func (s *Store) IncrementShares(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts, ok := bumpPost(s.posts, postID, func(p *domain.Post) { p.Shares++ })
	if !ok {
		return domain.ErrNotFound
	}
	s.posts = posts
	s.persist(KeyPosts, s.posts)
	s.notify(domain.CollectionPosts)
	metrics.IncMutation("post_share")
	return nil
}

// RemovePost убирает пост из локальной коллекции. Удалённая копия
// не трогается: на следующем цикле пост может вернуться из окна.
func (s *Store) RemovePost(postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Post, 0, len(s.posts))
	found := false
	for _, p := range s.posts {
		if p.ID == postID {
			found = true
			continue
		}
		out = append(out, p)
	}
	if !found {
		return domain.ErrNotFound
	}
	s.posts = out
	s.persist(KeyPosts, s.posts)
	s.notify(domain.CollectionPosts)
	metrics.IncMutation("post_remove")
	return nil
}

func (s *Store) findPost(postID string) domain.Post {
	for _, p := range s.posts {
		if p.ID == postID {
			return p
		}
	}
	return domain.Post{}
}

// PrependStory ставит новую сторис в начало.
func (s *Store) PrependStory(st domain.Story) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = append([]domain.Story{st}, s.stories...)
	s.persist(KeyStories, s.stories)
	s.notify(domain.CollectionStories)
	metrics.IncMutation("story_create")
}

// MarkStoryViewed помечает сторис просмотренной.
func (s *Store) MarkStoryViewed(storyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Story(nil), s.stories...)
	for i := range out {
		if out[i].ID != storyID {
			continue
		}
		out[i].Viewed = true
		out[i].Views++
		s.stories = out
		s.persist(KeyStories, s.stories)
		s.notify(domain.CollectionStories)
		metrics.IncMutation("story_view")
		return nil
	}
	return domain.ErrNotFound
}

// AppendProduct добавляет товар в витрину.
func (s *Store) AppendProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(append([]domain.Product(nil), s.products...), p)
	s.persist(KeyProducts, s.products)
	s.notify(domain.CollectionProducts)
	metrics.IncMutation("product_list")
}

// AppendMessage добавляет сообщение диалога.
func (s *Store) AppendMessage(m domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(append([]domain.Message(nil), s.messages...), m)
	s.notify(domain.CollectionMessages)
	metrics.IncMutation("message_send")
}

// MarkMessagesRead помечает прочитанными входящие от собеседника.
// Возвращает количество затронутых сообщений.
func (s *Store) MarkMessagesRead(peerID, selfID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Message(nil), s.messages...)
	changed := 0
	for i := range out {
		if out[i].SenderID == peerID && out[i].ReceiverID == selfID && !out[i].Read {
			out[i].Read = true
			changed++
		}
	}
	if changed > 0 {
		s.messages = out
		s.notify(domain.CollectionMessages)
		metrics.IncMutation("message_read")
	}
	return changed
}

// ProfileUpdate описывает частичное обновление профиля.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Name      *string `json:"name,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// UpdateProfile применяет частичное обновление к пользователю сессии.
func (s *Store) UpdateProfile(update ProfileUpdate) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionUser == nil {
		return domain.User{}, domain.ErrNoSession
	}
	user := *s.sessionUser
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	s.sessionUser = &user
	s.persist(KeySession, user)
	s.notify(domain.CollectionUsers)
	metrics.IncMutation("profile_update")
	return user, nil
}

// RequestCertification переводит профиль в состояние «заявка подана».
func (s *Store) RequestCertification(data domain.CertificationData) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionUser == nil {
		return domain.User{}, domain.ErrNoSession
	}
	user := *s.sessionUser
	user.CertificationStatus = domain.CertificationPending
	user.CertificationData = &data
	s.sessionUser = &user
	s.persist(KeySession, user)
	s.notify(domain.CollectionUsers)
	metrics.IncMutation("certification_request")
	return user, nil
}

// ToggleFollow переключает подписку пользователя сессии на другого
// пользователя. Счётчик подписчиков цели правится только локально.
func (s *Store) ToggleFollow(targetID string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionUser == nil {
		return domain.User{}, domain.ErrNoSession
	}
	user := *s.sessionUser
	following := make([]string, 0, len(user.Following)+1)
	removed := false
	for _, id := range user.Following {
		if id == targetID {
			removed = true
			continue
		}
		following = append(following, id)
	}
	if !removed {
		following = append(following, targetID)
	}
	user.Following = following
	s.sessionUser = &user
	s.persist(KeySession, user)

	users := append([]domain.User(nil), s.users...)
	for i := range users {
		if users[i].ID != targetID {
			continue
		}
		followers := make([]string, 0, len(users[i].Followers)+1)
		for _, id := range users[i].Followers {
			if id == user.ID {
				continue
			}
			followers = append(followers, id)
		}
		if !removed {
			followers = append(followers, user.ID)
		}
		users[i].Followers = followers
	}
	s.users = users
	s.notify(domain.CollectionUsers)
	metrics.IncMutation("follow_toggle")
	return user, nil
}

// AppendReport сохраняет жалобу в локальном журнале.
func (s *Store) AppendReport(r domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(append([]domain.Report(nil), s.reports...), r)
	s.persist(KeyReports, s.reports)
	metrics.IncMutation("report_create")
}

// ResolveReport фиксирует решение по жалобе.
func (s *Store) ResolveReport(reportID string, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Report(nil), s.reports...)
	for i := range out {
		if out[i].ID != reportID {
			continue
		}
		out[i].Resolved = true
		out[i].Accepted = accepted
		s.reports = out
		s.persist(KeyReports, s.reports)
		metrics.IncMutation("report_resolve")
		return nil
	}
	return domain.ErrNotFound
}

// NewEntityID выдаёт клиентский идентификатор на основе часов.
func NewEntityID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
