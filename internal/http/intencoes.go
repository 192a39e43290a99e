package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaozabele/membros/internal/intencao"
	"github.com/gestaozabele/membros/internal/util"
)

// CreateIntencao registra a intenção de adesão (público).
func (h *Handler) CreateIntencao(w http.ResponseWriter, r *http.Request) {
	var payload intencao.CreateInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	item, err := h.intencoes.Create(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err, "criar intenção")
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

// ListIntencoes lista intenções, mais recentes primeiro (admin).
func (h *Handler) ListIntencoes(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	items, err := h.intencoes.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err, "listar intenções")
		return
	}

	WriteJSON(w, http.StatusOK, items)
}

// UpdateIntencaoStatus aprova ou rejeita uma intenção pendente (admin).
func (h *Handler) UpdateIntencaoStatus(w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimSpace(chi.URLParam(r, "id"))
	if rawID == "" {
		WriteError(w, http.StatusBadRequest, msgInvalidInput, []util.FieldError{{Campo: "id", Mensagem: "ID da intenção é obrigatório."}})
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		WriteError(w, http.StatusBadRequest, msgInvalidInput, []util.FieldError{{Campo: "id", Mensagem: "ID da intenção inválido."}})
		return
	}

	var payload intencao.StatusInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.intencoes.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeServiceError(w, r, err, "atualizar status da intenção")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
