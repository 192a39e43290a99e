package http

import (
	"net/http"

	"github.com/gestaozabele/membros/internal/usuario"
)

// RegisterUsuario conclui o cadastro a partir de um convite.
func (h *Handler) RegisterUsuario(w http.ResponseWriter, r *http.Request) {
	var payload usuario.RegisterInput
	if !decodeJSON(w, r, &payload) {
		return
	}

	user, err := h.usuarios.Register(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err, "registrar usuário")
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}
