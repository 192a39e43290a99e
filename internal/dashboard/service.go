package dashboard

import (
	"context"

	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/repo"
)

// Stats agrega os números exibidos no painel.
type Stats struct {
	ActiveUsers            int64 `json:"active_users"`
	PendingApplications    int64 `json:"pending_applications"`
	InvitationsThisMonth   int64 `json:"invitations_this_month"`
	RegistrationsThisMonth int64 `json:"registrations_this_month"`
}

// Service calcula estatísticas somente leitura.
type Service struct {
	db db.DBTX
}

func NewService(conn db.DBTX) *Service {
	return &Service{db: conn}
}

// Stats consulta todas as contagens em um único round trip.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM usuarios WHERE ativo = true),
            (SELECT COUNT(*) FROM intencoes WHERE status = 'pending'),
            (SELECT COUNT(*) FROM convites WHERE created_at >= date_trunc('month', now())),
            (SELECT COUNT(*) FROM usuarios WHERE created_at >= date_trunc('month', now()))
    `

	var st Stats
	if err := s.db.QueryRow(ctx, query).Scan(
		&st.ActiveUsers,
		&st.PendingApplications,
		&st.InvitationsThisMonth,
		&st.RegistrationsThisMonth,
	); err != nil {
		return nil, repo.Classify(err)
	}
	return &st, nil
}
