package guard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	"vision-app/internal/usecase/state"
)

// Service ведёт журнал жалоб и модерацию. Жалобы живут в локальном
// хранилище; резолюция фиксирует решение, но пост не трогает.
type Service struct {
	store *state.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService создаёт сервис модерации.
func NewService(store *state.Store, logger zerolog.Logger) *Service {
	return &Service{store: store, log: logger, now: time.Now}
}

// Report создаёт жалобу на пост с денормализованным снимком его полей.
func (s *Service) Report(postID, reporterID, reason string) (domain.Report, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.Report{}, fmt.Errorf("причина обязательна: %w", domain.ErrValidation)
	}
	var post domain.Post
	found := false
	for _, p := range s.store.Posts() {
		if p.ID == postID {
			post = p
			found = true
			break
		}
	}
	if !found {
		return domain.Report{}, domain.ErrNotFound
	}
	now := s.now()
	report := domain.Report{
		ID:          strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:8],
		PostID:      post.ID,
		ReporterID:  reporterID,
		Reason:      strings.TrimSpace(reason),
		Timestamp:   now.UnixMilli(),
		PostTitle:   post.Title,
		PostCaption: post.Caption,
	}
	s.store.AppendReport(report)
	s.log.Info().Str("post", post.ID).Str("reporter", reporterID).Msg("guard: жалоба зарегистрирована")
	return report, nil
}

// Reports возвращает журнал жалоб.
func (s *Service) Reports() []domain.Report {
	return s.store.Reports()
}

// Resolve фиксирует решение по жалобе.
func (s *Service) Resolve(reportID string, accepted bool) error {
	if err := s.store.ResolveReport(reportID, accepted); err != nil {
		return err
	}
	s.log.Info().Str("report", reportID).Bool("accepted", accepted).Msg("guard: жалоба закрыта")
	return nil
}

// RemovePost убирает пост из локальной коллекции по решению админа.
func (s *Service) RemovePost(postID string) error {
	return s.store.RemovePost(postID)
}
