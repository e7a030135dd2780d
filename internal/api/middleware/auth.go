package middleware

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID извлекает опциональный заголовок X-User-ID в контекст запроса
// Бронирования доступны без аутентификации, но платеж может быть
// привязан к пользователю, если вызывающий сервис его знает
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header != "" {
			userID, err := strconv.ParseInt(header, 10, 64)
			if err != nil {
				http.Error(w, "invalid X-User-ID header", http.StatusBadRequest)
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext возвращает ID пользователя из контекста, если он был
// передан в запросе
func UserIDFromContext(ctx context.Context) *int64 {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return nil
	}
	return &userID
}
