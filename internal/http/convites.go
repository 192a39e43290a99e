package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// VerifyConvite informa se o token ainda pode ser usado. Não consome o convite.
func (h *Handler) VerifyConvite(w http.ResponseWriter, r *http.Request) {
	inv, err := h.convites.Verify(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, r, err, "verificar convite")
		return
	}

	WriteJSON(w, http.StatusOK, inv)
}
