package remote

import (
	"encoding/json"
	"fmt"

	"vision-app/internal/domain"
)

// Записи коллекций в плоском виде хранилища: внешние ключи вместо
// вложенных объектов, метки времени числом миллисекунд.

type userRecord struct {
	ID                  string   `json:"id"`
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name"`
	Name                string   `json:"name"`
	Avatar              string   `json:"avatar"`
	Username            string   `json:"username"`
	Email               string   `json:"email"`
	IsAdmin             bool     `json:"is_admin"`
	IsVerified          bool     `json:"is_verified"`
	CertificationStatus string   `json:"certification_status"`
	Followers           []string `json:"followers"`
	Following           []string `json:"following"`
}

func (r userRecord) validate() error {
	if r.ID == "" {
		return fmt.Errorf("user: %w: empty id", domain.ErrValidation)
	}
	switch domain.CertificationStatus(r.CertificationStatus) {
	case "", domain.CertificationNone, domain.CertificationPending, domain.CertificationApproved, domain.CertificationRejected:
	default:
		return fmt.Errorf("user %s: %w: certification_status %q", r.ID, domain.ErrValidation, r.CertificationStatus)
	}
	return nil
}

func (r userRecord) toEntity() domain.User {
	status := domain.CertificationStatus(r.CertificationStatus)
	if status == "" {
		status = domain.CertificationNone
	}
	return domain.User{
		ID:                  r.ID,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Name:                r.Name,
		Avatar:              r.Avatar,
		Username:            r.Username,
		Email:               r.Email,
		IsAdmin:             r.IsAdmin,
		IsVerified:          r.IsVerified,
		CertificationStatus: status,
		Followers:           emptyIfNil(r.Followers),
		Following:           emptyIfNil(r.Following),
	}
}

func userToRecord(u domain.User) userRecord {
	status := string(u.CertificationStatus)
	if status == "" {
		status = string(domain.CertificationNone)
	}
	return userRecord{
		ID:                  u.ID,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Name:                u.Name,
		Avatar:              u.Avatar,
		Username:            u.Username,
		Email:               u.Email,
		IsAdmin:             u.IsAdmin,
		IsVerified:          u.IsVerified,
		CertificationStatus: status,
		Followers:           emptyIfNil(u.Followers),
		Following:           emptyIfNil(u.Following),
	}
}

type postRecord struct {
	ID         string           `json:"id"`
	AuthorID   string           `json:"author_id"`
	Kind       string           `json:"type"`
	ContentURL string           `json:"content_url"`
	Caption    string           `json:"caption"`
	Title      string           `json:"title"`
	Source     string           `json:"source"`
	Likes      []string         `json:"likes"`
	Comments   []domain.Comment `json:"comments"`
	Shares     int              `json:"shares"`
	Views      int              `json:"views"`
	Timestamp  int64            `json:"timestamp"`
	Category   string           `json:"category"`
}

func (r postRecord) validate() error {
	if r.ID == "" {
		return fmt.Errorf("post: %w: empty id", domain.ErrValidation)
	}
	switch domain.ContentKind(r.Kind) {
	case domain.ContentImage, domain.ContentVideo, domain.ContentReel, domain.ContentNews:
	default:
		return fmt.Errorf("post %s: %w: type %q", r.ID, domain.ErrValidation, r.Kind)
	}
	return nil
}

func (r postRecord) toEntity() domain.Post {
	return domain.Post{
		ID:         r.ID,
		Author:     authorSnapshot(r.AuthorID),
		Kind:       domain.ContentKind(r.Kind),
		ContentURL: r.ContentURL,
		Caption:    r.Caption,
		Title:      r.Title,
		Source:     r.Source,
		Likes:      emptyIfNil(r.Likes),
		Comments:   emptyCommentsIfNil(r.Comments),
		Shares:     r.Shares,
		Views:      r.Views,
		Timestamp:  r.Timestamp,
		Category:   domain.ContentCategory(r.Category),
	}
}

func postToRecord(p domain.Post) postRecord {
	return postRecord{
		ID:         p.ID,
		AuthorID:   p.Author.ID,
		Kind:       string(p.Kind),
		ContentURL: p.ContentURL,
		Caption:    p.Caption,
		Title:      p.Title,
		Source:     p.Source,
		Likes:      emptyIfNil(p.Likes),
		Comments:   emptyCommentsIfNil(p.Comments),
		Shares:     p.Shares,
		Views:      p.Views,
		Timestamp:  p.Timestamp,
		Category:   string(p.Category),
	}
}

type storyRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ImageURL  string `json:"image_url"`
	Kind      string `json:"type"`
	Viewed    bool   `json:"viewed"`
	Views     int    `json:"views"`
	Timestamp int64  `json:"timestamp"`
}

func (r storyRecord) validate() error {
	if r.ID == "" {
		return fmt.Errorf("story: %w: empty id", domain.ErrValidation)
	}
	switch domain.StoryKind(r.Kind) {
	case domain.StoryImage, domain.StoryVideo:
	default:
		return fmt.Errorf("story %s: %w: type %q", r.ID, domain.ErrValidation, r.Kind)
	}
	return nil
}

func (r storyRecord) toEntity() domain.Story {
	return domain.Story{
		ID:        r.ID,
		User:      authorSnapshot(r.UserID),
		ImageURL:  r.ImageURL,
		Kind:      domain.StoryKind(r.Kind),
		Viewed:    r.Viewed,
		Views:     r.Views,
		Timestamp: r.Timestamp,
	}
}

func storyToRecord(s domain.Story) storyRecord {
	return storyRecord{
		ID:        s.ID,
		UserID:    s.User.ID,
		ImageURL:  s.ImageURL,
		Kind:      string(s.Kind),
		Viewed:    s.Viewed,
		Views:     s.Views,
		Timestamp: s.Timestamp,
	}
}

type productRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
}

func (r productRecord) validate() error {
	if r.ID == "" {
		return fmt.Errorf("product: %w: empty id", domain.ErrValidation)
	}
	return nil
}

func (r productRecord) toEntity() domain.Product {
	return domain.Product(r)
}

func productToRecord(p domain.Product) productRecord {
	return productRecord(p)
}

type messageRecord struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
	Read       bool   `json:"read"`
}

func (r messageRecord) validate() error {
	if r.ID == "" {
		return fmt.Errorf("message: %w: empty id", domain.ErrValidation)
	}
	if r.SenderID == "" || r.ReceiverID == "" {
		return fmt.Errorf("message %s: %w: missing peer", r.ID, domain.ErrValidation)
	}
	return nil
}

func (r messageRecord) toEntity() domain.Message {
	return domain.Message{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Content:    r.Content,
		Timestamp:  r.Timestamp,
		Read:       r.Read,
	}
}

func messageToRecord(m domain.Message) messageRecord {
	return messageRecord{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Timestamp:  m.Timestamp,
		Read:       m.Read,
	}
}

// authorSnapshot разворачивает внешний ключ в минимальный профиль.
// Полный профиль придёт из коллекции users в том же цикле.
func authorSnapshot(id string) domain.User {
	return domain.User{
		ID:        id,
		Name:      id,
		Username:  id,
		Avatar:    "https://picsum.photos/seed/" + id + "/200/200",
		Followers: []string{},
		Following: []string{},
	}
}

// docFromEntity кодирует сущность в документ локального вида.
func docFromEntity(v any) (domain.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// entityFromDoc декодирует документ локального вида в сущность.
func entityFromDoc[T any](doc domain.Document) (T, error) {
	var out T
	data, err := json.Marshal(doc)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func emptyCommentsIfNil(in []domain.Comment) []domain.Comment {
	if in == nil {
		return []domain.Comment{}
	}
	return in
}
