package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/intencao"
	"github.com/gestaozabele/membros/internal/repo"
	"github.com/gestaozabele/membros/internal/usuario"
	"github.com/gestaozabele/membros/internal/util"
)

const (
	msgInvalidInput      = "Dados de entrada inválidos."
	msgInvalidJSON       = "JSON inválido."
	msgDuplicateIntencao = "Este email já foi submetido."
	msgIntencaoNotFound  = "Intenção não encontrada ou já processada."
	msgInvalidInvitation = "Convite inválido, expirado ou já utilizado."
	msgEmailRegistered   = "Este email já está cadastrado na plataforma."
	msgUnavailable       = "Serviço temporariamente indisponível. Tente novamente."
	msgInternal          = "Erro interno do servidor."
)

// statusClientClosedRequest registra, nos logs e métricas, requisições abandonadas pelo cliente.
const statusClientClosedRequest = 499

// writeServiceError traduz erros de domínio em respostas; o resto vira 500 genérico
// com o detalhe apenas no log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		log.Debug().Err(err).Str("op", op).Str("request_id", middleware.GetReqID(r.Context())).Msg("requisição cancelada pelo cliente")
		w.WriteHeader(statusClientClosedRequest)
		return
	}

	err = repo.Classify(err)

	if vErr, ok := util.AsValidationError(err); ok {
		WriteError(w, http.StatusBadRequest, msgInvalidInput, vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, intencao.ErrDuplicateEmail):
		WriteError(w, http.StatusConflict, msgDuplicateIntencao, nil)
	case errors.Is(err, intencao.ErrNotFoundOrProcessed):
		WriteError(w, http.StatusNotFound, msgIntencaoNotFound, nil)
	case errors.Is(err, convite.ErrInvalidInvitation):
		WriteError(w, http.StatusNotFound, msgInvalidInvitation, nil)
	case errors.Is(err, usuario.ErrEmailRegistered):
		WriteError(w, http.StatusConflict, msgEmailRegistered, nil)
	case errors.Is(err, repo.ErrUnavailable):
		log.Warn().Err(err).Str("op", op).Str("request_id", middleware.GetReqID(r.Context())).Msg("banco indisponível")
		w.Header().Set("Retry-After", "1")
		WriteError(w, http.StatusServiceUnavailable, msgUnavailable, nil)
	default:
		log.Error().Err(err).Str("op", op).Str("request_id", middleware.GetReqID(r.Context())).Msg("erro inesperado")
		WriteError(w, http.StatusInternalServerError, msgInternal, nil)
	}
}
