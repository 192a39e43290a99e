package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/membros/internal/auth"
)

// KeyChecker valida a chave administrativa apresentada.
type KeyChecker interface {
	Check(key string) error
}

// AdminKey exige Authorization: Bearer <chave> nas rotas administrativas.
func AdminKey(checker KeyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				writeError(w, http.StatusUnauthorized, "Autenticação obrigatória.")
				return
			}

			if err := checker.Check(strings.TrimSpace(parts[1])); err != nil {
				if errors.Is(err, auth.ErrInvalidKey) {
					writeError(w, http.StatusForbidden, "Acesso negado.")
					return
				}
				log.Error().Err(err).Msg("falha ao verificar chave administrativa")
				writeError(w, http.StatusInternalServerError, "Erro interno do servidor.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
