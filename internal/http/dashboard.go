package http

import "net/http"

// DashboardStats devolve os números agregados do painel (admin).
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "estatísticas do dashboard")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
