package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline limita o tempo que a requisição pode passar esperando o banco.
// Estourado o prazo, o erro de contexto chega aos serviços e vira 503.
func Deadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
