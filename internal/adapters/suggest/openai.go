package suggest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vision-app/internal/domain"
	openai "vision-app/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI реализует подсказки через Chat Completions.
// При любой ошибке генерации отвечает заглушкой, а не ошибкой:
// подсказки вспомогательны и не должны ломать формы.
type OpenAI struct {
	client   chatClient
	fallback *Simple
	model    string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewOpenAI создаёт провайдер подсказок.
func NewOpenAI(client chatClient, model string, timeout time.Duration, logger zerolog.Logger) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAI{client: client, fallback: NewSimple(), model: model, timeout: timeout, log: logger}
}

var _ domain.SuggestionProvider = (*OpenAI)(nil)

var hashtagRe = regexp.MustCompile(`#\w+`)

// ImproveCaption просит модель улучшить подпись поста.
func (s *OpenAI) ImproveCaption(ctx context.Context, caption string) (string, error) {
	text, err := s.complete(ctx, fmt.Sprintf("Improve this social media caption, answer with the caption only: %q", caption))
	if err != nil {
		s.log.Warn().Err(err).Msg("suggest: генерация подписи не удалась")
		return s.fallback.ImproveCaption(ctx, caption)
	}
	return strings.TrimSpace(text), nil
}

// SuggestHashtags просит модель подобрать пять хэштегов.
func (s *OpenAI) SuggestHashtags(ctx context.Context, caption string) ([]string, error) {
	text, err := s.complete(ctx, fmt.Sprintf("Suggest 5 relevant hashtags for this post: %q", caption))
	if err != nil {
		s.log.Warn().Err(err).Msg("suggest: генерация хэштегов не удалась")
		return s.fallback.SuggestHashtags(ctx, caption)
	}
	tags := hashtagRe.FindAllString(text, -1)
	if len(tags) == 0 {
		return s.fallback.SuggestHashtags(ctx, caption)
	}
	return tags, nil
}

// AltText описывает изображение для доступности.
func (s *OpenAI) AltText(ctx context.Context, imageURL string) (string, error) {
	text, err := s.complete(ctx, fmt.Sprintf("Describe this image for accessibility: %s", imageURL))
	if err != nil {
		s.log.Warn().Err(err).Msg("suggest: генерация описания не удалась")
		return s.fallback.AltText(ctx, imageURL)
	}
	return strings.TrimSpace(text), nil
}

func (s *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.4,
		MaxTokens:   200,
		Messages: []openai.ChatMessage{
			{Role: openai.RoleSystem, Content: "You help write short social media content."},
			{Role: openai.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("suggest: пустой ответ модели")
	}
	return resp.Choices[0].Message.Content, nil
}
