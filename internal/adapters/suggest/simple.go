package suggest

import (
	"context"
	"strings"

	"vision-app/internal/domain"
)

// Заглушки на случай, когда ключ API не задан: фича деградирует,
// но приложение стартует и работает.
var fallbackHashtags = []string{"#vision", "#premium", "#network"}

// Simple реализует SuggestionProvider без внешних вызовов.
type Simple struct{}

// NewSimple создаёт провайдер-заглушку.
func NewSimple() *Simple {
	return &Simple{}
}

var _ domain.SuggestionProvider = (*Simple)(nil)

// ImproveCaption возвращает подпись без изменений.
func (s *Simple) ImproveCaption(_ context.Context, caption string) (string, error) {
	return strings.TrimSpace(caption), nil
}

// SuggestHashtags возвращает статический набор хэштегов.
func (s *Simple) SuggestHashtags(_ context.Context, _ string) ([]string, error) {
	out := make([]string, len(fallbackHashtags))
	copy(out, fallbackHashtags)
	return out, nil
}

// AltText возвращает нейтральное описание.
func (s *Simple) AltText(_ context.Context, _ string) (string, error) {
	return "Image", nil
}
