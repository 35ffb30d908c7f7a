package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	httpinfra "vision-app/internal/infra/http"
	"vision-app/internal/usecase/guard"
	"vision-app/internal/usecase/reconcile"
	"vision-app/internal/usecase/session"
	"vision-app/internal/usecase/state"
)

// Handler реализует HTTP-поверхность клиента: мутации применяются к локальному
// состоянию синхронно, наверх уезжают ближайшим циклом синхронизации.
type Handler struct {
	store    *state.Store
	engine   *reconcile.Engine
	sessions *session.Manager
	guard    *guard.Service
	suggest  domain.SuggestionProvider
	secret   string
	storyTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewHandler создаёт обработчик.
func NewHandler(store *state.Store, engine *reconcile.Engine, sessions *session.Manager, guardSvc *guard.Service, suggest domain.SuggestionProvider, secret string, storyTTL time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		engine:   engine,
		sessions: sessions,
		guard:    guardSvc,
		suggest:  suggest,
		secret:   secret,
		storyTTL: storyTTL,
		log:      logger,
		now:      time.Now,
	}
}

// Register вешает маршруты на роутер.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/v1/auth/login", h.handleLogin)
	r.Get("/api/v1/updates", h.handleUpdates)

	r.Group(func(protected chi.Router) {
		protected.Use(httpinfra.SessionAuthMiddleware(h.secret))

		protected.Post("/api/v1/auth/logout", h.handleLogout)
		protected.Get("/api/v1/state", h.handleState)
		protected.Post("/api/v1/sync", h.handleSyncNow)

		protected.Get("/api/v1/posts", h.handleListPosts)
		protected.Post("/api/v1/posts", h.handleCreatePost)
		protected.Post("/api/v1/posts/{id}/like", h.handleLikePost)
		protected.Post("/api/v1/posts/{id}/comments", h.handleComment)
		protected.Post("/api/v1/posts/{id}/view", h.handleViewPost)
		protected.Post("/api/v1/posts/{id}/share", h.handleSharePost)
		protected.Delete("/api/v1/posts/{id}", h.handleRemovePost)

		protected.Get("/api/v1/stories", h.handleListStories)
		protected.Post("/api/v1/stories", h.handleCreateStory)
		protected.Post("/api/v1/stories/{id}/view", h.handleViewStory)

		protected.Get("/api/v1/products", h.handleListProducts)
		protected.Post("/api/v1/products", h.handleCreateProduct)

		protected.Get("/api/v1/messages", h.handleListMessages)
		protected.Post("/api/v1/messages", h.handleSendMessage)
		protected.Post("/api/v1/messages/read", h.handleMarkRead)

		protected.Put("/api/v1/profile", h.handleUpdateProfile)
		protected.Post("/api/v1/profile/certification", h.handleCertification)
		protected.Post("/api/v1/users/{id}/follow", h.handleFollow)

		protected.Post("/api/v1/reports", h.handleCreateReport)
		protected.Get("/api/v1/admin/reports", h.handleListReports)
		protected.Post("/api/v1/admin/reports/{id}/resolve", h.handleResolveReport)

		protected.Get("/api/v1/suggest/caption", h.handleSuggestCaption)
		protected.Get("/api/v1/suggest/hashtags", h.handleSuggestHashtags)
		protected.Get("/api/v1/suggest/alt", h.handleSuggestAlt)

		protected.Put("/api/v1/settings/theme", h.handleSetTheme)
		protected.Put("/api/v1/settings/language", h.handleSetLanguage)
	})
}

// sessionUser сверяет субъект токена с пользователем активной сессии.
func (h *Handler) sessionUser(r *http.Request) (domain.User, error) {
	user, ok := h.store.SessionUser()
	if !ok || user.ID != httpinfra.SessionUserID(r) {
		return domain.User{}, domain.ErrNoSession
	}
	return user, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("некорректное тело запроса: %w", domain.ErrValidation)
	}
	return nil
}

// writeDomainError переводит доменную ошибку в HTTP-статус.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httpinfra.WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNotFound):
		httpinfra.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrForbidden):
		httpinfra.WriteError(w, http.StatusForbidden, err)
	case errors.Is(err, domain.ErrNoSession):
		httpinfra.WriteError(w, http.StatusUnauthorized, err)
	default:
		httpinfra.WriteError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds session.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeDomainError(w, err)
		return
	}
	user, token, err := h.sessions.Login(r.Context(), creds)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	h.sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string]any{
		"user":     user,
		"users":    h.store.Users(),
		"posts":    h.store.Posts(),
		"stories":  h.liveStories(),
		"products": h.store.Products(),
		"messages": h.store.Messages(),
		"theme":    h.store.Theme(),
		"language": h.store.Language(),
	})
}

func (h *Handler) handleSyncNow(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	h.engine.RequestSync(r.Context(), domain.SyncCauseManual)
	httpinfra.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	posts := h.store.Posts()
	kind := r.URL.Query().Get("type")
	category := r.URL.Query().Get("category")
	if kind == "" && category == "" {
		httpinfra.WriteJSON(w, http.StatusOK, posts)
		return
	}
	filtered := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if kind != "" && string(p.Kind) != kind {
			continue
		}
		if category != "" && string(p.Category) != category {
			continue
		}
		filtered = append(filtered, p)
	}
	httpinfra.WriteJSON(w, http.StatusOK, filtered)
}

type createPostRequest struct {
	Kind       string `json:"type"`
	ContentURL string `json:"contentUrl"`
	Caption    string `json:"caption"`
	Title      string `json:"title,omitempty"`
	Source     string `json:"source,omitempty"`
	Category   string `json:"category,omitempty"`
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req createPostRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	kind := domain.ContentKind(req.Kind)
	switch kind {
	case domain.ContentImage, domain.ContentVideo, domain.ContentReel, domain.ContentNews:
	default:
		writeDomainError(w, fmt.Errorf("неизвестный тип поста %q: %w", req.Kind, domain.ErrValidation))
		return
	}
	if strings.TrimSpace(req.ContentURL) == "" {
		writeDomainError(w, fmt.Errorf("contentUrl обязателен: %w", domain.ErrValidation))
		return
	}
	if strings.TrimSpace(req.Caption) == "" {
		writeDomainError(w, fmt.Errorf("caption обязателен: %w", domain.ErrValidation))
		return
	}
	if kind == domain.ContentNews && strings.TrimSpace(req.Title) == "" {
		writeDomainError(w, fmt.Errorf("title обязателен для новости: %w", domain.ErrValidation))
		return
	}
	post := domain.Post{
		ID:         state.NewEntityID(),
		Author:     user,
		Kind:       kind,
		ContentURL: req.ContentURL,
		Caption:    req.Caption,
		Title:      req.Title,
		Source:     req.Source,
		Likes:      []string{},
		Comments:   []domain.Comment{},
		Timestamp:  h.now().UnixMilli(),
		Category:   domain.ContentCategory(req.Category),
	}
	h.store.PrependPost(post)
	h.engine.RequestSync(r.Context(), domain.SyncCauseMutation)
	httpinfra.WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) handleLikePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	post, err := h.store.ToggleLike(chi.URLParam(r, "id"), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, post)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeDomainError(w, fmt.Errorf("текст комментария обязателен: %w", domain.ErrValidation))
		return
	}
	now := h.now().UnixMilli()
	comment := domain.Comment{
		ID:         strconv.FormatInt(now, 10),
		UserID:     user.ID,
		UserName:   user.Name,
		UserAvatar: user.Avatar,
		Text:       req.Text,
		Timestamp:  strconv.FormatInt(now, 10),
	}
	post, err := h.store.AppendComment(chi.URLParam(r, "id"), comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusCreated, post)
}

func (h *Handler) handleViewPost(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.store.IncrementViews(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSharePost(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.store.IncrementShares(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemovePost(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !user.IsAdmin {
		writeDomainError(w, fmt.Errorf("удаление поста доступно только админу: %w", domain.ErrForbidden))
		return
	}
	if err := h.guard.RemovePost(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// liveStories скрывает истёкшие сторис. Локальная коллекция не
// чистится по возрасту: срок жизни контролирует слой показа.
func (h *Handler) liveStories() []domain.Story {
	cutoff := h.now().Add(-h.storyTTL).UnixMilli()
	stories := h.store.Stories()
	live := make([]domain.Story, 0, len(stories))
	for _, st := range stories {
		if st.Timestamp > cutoff {
			live = append(live, st)
		}
	}
	return live
}

func (h *Handler) handleListStories(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, h.liveStories())
}

type createStoryRequest struct {
	ImageURL string `json:"imageUrl"`
	Kind     string `json:"type"`
}

func (h *Handler) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req createStoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	kind := domain.StoryKind(req.Kind)
	if kind != domain.StoryImage && kind != domain.StoryVideo {
		writeDomainError(w, fmt.Errorf("неизвестный тип сторис %q: %w", req.Kind, domain.ErrValidation))
		return
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		writeDomainError(w, fmt.Errorf("imageUrl обязателен: %w", domain.ErrValidation))
		return
	}
	story := domain.Story{
		ID:        state.NewEntityID(),
		User:      user,
		ImageURL:  req.ImageURL,
		Kind:      kind,
		Timestamp: h.now().UnixMilli(),
	}
	h.store.PrependStory(story)
	h.engine.RequestSync(r.Context(), domain.SyncCauseMutation)
	httpinfra.WriteJSON(w, http.StatusCreated, story)
}

func (h *Handler) handleViewStory(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.store.MarkStoryViewed(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, h.store.Products())
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeDomainError(w, fmt.Errorf("название товара обязательно: %w", domain.ErrValidation))
		return
	}
	if req.Price <= 0 {
		writeDomainError(w, fmt.Errorf("цена должна быть положительной: %w", domain.ErrValidation))
		return
	}
	if strings.TrimSpace(req.Currency) == "" {
		writeDomainError(w, fmt.Errorf("валюта обязательна: %w", domain.ErrValidation))
		return
	}
	product := domain.Product{
		ID:          state.NewEntityID(),
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
		Currency:    req.Currency,
	}
	h.store.AppendProduct(product)
	h.engine.RequestSync(r.Context(), domain.SyncCauseMutation)
	httpinfra.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	peer := r.URL.Query().Get("peer")
	messages := h.store.Messages()
	if peer == "" {
		httpinfra.WriteJSON(w, http.StatusOK, messages)
		return
	}
	conversation := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		if (m.SenderID == user.ID && m.ReceiverID == peer) || (m.SenderID == peer && m.ReceiverID == user.ID) {
			conversation = append(conversation, m)
		}
	}
	httpinfra.WriteJSON(w, http.StatusOK, conversation)
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if strings.TrimSpace(req.ReceiverID) == "" {
		writeDomainError(w, fmt.Errorf("receiverId обязателен: %w", domain.ErrValidation))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeDomainError(w, fmt.Errorf("пустое сообщение: %w", domain.ErrValidation))
		return
	}
	msg := domain.Message{
		ID:         state.NewEntityID(),
		SenderID:   user.ID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Timestamp:  h.now().UnixMilli(),
	}
	h.store.AppendMessage(msg)
	h.engine.RequestSync(r.Context(), domain.SyncCauseMutation)
	httpinfra.WriteJSON(w, http.StatusCreated, msg)
}

type markReadRequest struct {
	Peer string `json:"peer"`
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req markReadRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	changed := h.store.MarkMessagesRead(req.Peer, user.ID)
	httpinfra.WriteJSON(w, http.StatusOK, map[string]int{"read": changed})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	var update state.ProfileUpdate
	if err := decodeBody(r, &update); err != nil {
		writeDomainError(w, err)
		return
	}
	user, err := h.store.UpdateProfile(update)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleCertification(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	var data domain.CertificationData
	if err := decodeBody(r, &data); err != nil {
		writeDomainError(w, err)
		return
	}
	if strings.TrimSpace(data.Category) == "" || strings.TrimSpace(data.Reason) == "" {
		writeDomainError(w, fmt.Errorf("категория и причина обязательны: %w", domain.ErrValidation))
		return
	}
	user, err := h.store.RequestCertification(data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleFollow(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	user, err := h.store.ToggleFollow(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, user)
}

type createReportRequest struct {
	PostID string `json:"postId"`
	Reason string `json:"reason"`
}

func (h *Handler) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req createReportRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	report, err := h.guard.Report(req.PostID, user.ID, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !user.IsAdmin {
		writeDomainError(w, fmt.Errorf("журнал жалоб доступен только админу: %w", domain.ErrForbidden))
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, h.guard.Reports())
}

type resolveReportRequest struct {
	Accepted bool `json:"accepted"`
}

func (h *Handler) handleResolveReport(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessionUser(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !user.IsAdmin {
		writeDomainError(w, fmt.Errorf("резолюция доступна только админу: %w", domain.ErrForbidden))
		return
	}
	var req resolveReportRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.guard.Resolve(chi.URLParam(r, "id"), req.Accepted); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSuggestCaption(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	caption, err := h.suggest.ImproveCaption(r.Context(), r.URL.Query().Get("caption"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string]string{"caption": caption})
}

func (h *Handler) handleSuggestHashtags(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	tags, err := h.suggest.SuggestHashtags(r.Context(), r.URL.Query().Get("caption"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string][]string{"hashtags": tags})
}

func (h *Handler) handleSuggestAlt(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	alt, err := h.suggest.AltText(r.Context(), r.URL.Query().Get("image"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, map[string]string{"alt": alt})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	var req themeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		writeDomainError(w, fmt.Errorf("неизвестная тема %q: %w", req.Theme, domain.ErrValidation))
		return
	}
	h.store.SetTheme(req.Theme)
	httpinfra.WriteJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

type languageRequest struct {
	Language string `json:"language"`
}

func (h *Handler) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessionUser(r); err != nil {
		writeDomainError(w, err)
		return
	}
	var req languageRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		writeDomainError(w, fmt.Errorf("язык обязателен: %w", domain.ErrValidation))
		return
	}
	h.store.SetLanguage(req.Language)
	httpinfra.WriteJSON(w, http.StatusOK, map[string]string{"language": req.Language})
}
