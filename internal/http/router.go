package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/gestaozabele/membros/internal/config"
	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/dashboard"
	httpmiddleware "github.com/gestaozabele/membros/internal/http/middleware"
	"github.com/gestaozabele/membros/internal/intencao"
	"github.com/gestaozabele/membros/internal/metrics"
	"github.com/gestaozabele/membros/internal/usuario"
)

const maxBodyBytes = 64 << 10

type IntencaoService interface {
	Create(ctx context.Context, input intencao.CreateInput) (*intencao.Intencao, error)
	List(ctx context.Context, status string) ([]intencao.Intencao, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*intencao.StatusResult, error)
}

type ConviteService interface {
	Verify(ctx context.Context, token string) (*convite.Convite, error)
}

type UsuarioService interface {
	Register(ctx context.Context, input usuario.RegisterInput) (*usuario.Usuario, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

// CheckFunc testa uma dependência externa para /ready.
type CheckFunc func(ctx context.Context) error

// Services reúne as dependências que o roteador expõe.
type Services struct {
	Intencoes IntencaoService
	Convites  ConviteService
	Usuarios  UsuarioService
	Dashboard DashboardService
	AdminKey  httpmiddleware.KeyChecker
	Checks    map[string]CheckFunc
}

type Handler struct {
	intencoes IntencaoService
	convites  ConviteService
	usuarios  UsuarioService
	dashboard DashboardService
	checks    map[string]CheckFunc
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, svc Services) http.Handler {
	h := &Handler{
		intencoes: svc.Intencoes,
		convites:  svc.Convites,
		usuarios:  svc.Usuarios,
		dashboard: svc.Dashboard,
		checks:    svc.Checks,
	}

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	adminLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitAdmin.RequestsPerSecond, cfg.RateLimitAdmin.Burst)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(metrics.Instrument)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.Deadline(cfg.DBQueryTimeout))

		api.Group(func(public chi.Router) {
			public.Use(httpmiddleware.IPRateLimit(publicLimiter))

			public.Post("/intencoes", h.CreateIntencao)
			public.Get("/convites/{token}", h.VerifyConvite)
			public.Post("/usuarios", h.RegisterUsuario)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.IPRateLimit(adminLimiter))
			admin.Use(httpmiddleware.AdminKey(svc.AdminKey))

			admin.Get("/intencoes", h.ListIntencoes)
			admin.Patch("/intencoes/{id}", h.UpdateIntencaoStatus)
			admin.Get("/dashboard/stats", h.DashboardStats)
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis (quando configurado).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	ready := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status[name] = err.Error()
			ready = false
			continue
		}
		status[name] = "ok"
	}

	if !ready {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(Envelope{Success: false, Error: "dependências indisponíveis", Data: status})
		return
	}

	WriteJSON(w, http.StatusOK, status)
}

// decodeJSON lê o corpo limitado e responde 400 quando o JSON é inválido.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Corpo da requisição muito grande.", nil)
			return false
		}
		WriteError(w, http.StatusBadRequest, msgInvalidJSON, nil)
		return false
	}
	return true
}
