package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "session_user_id"

// ErrBadToken возвращается при недействительном токене сессии.
var ErrBadToken = errors.New("session token is invalid")

// IssueSessionToken подписывает JWT для идентификатора пользователя.
func IssueSessionToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "vision-app",
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseSessionToken проверяет подпись и возвращает идентификатор пользователя.
func ParseSessionToken(secret, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrBadToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrBadToken
	}
	return sub, nil
}

// SessionAuthMiddleware проверяет bearer-токен и кладёт идентификатор
// пользователя в контекст запроса.
func SessionAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == "" || raw == header {
				WriteError(w, http.StatusUnauthorized, errors.New("токен сессии отсутствует"))
				return
			}
			userID, err := ParseSessionToken(secret, raw)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, err)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionUserID возвращает идентификатор пользователя из контекста запроса.
func SessionUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
