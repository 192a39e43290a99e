package convite

import (
	"context"

	"github.com/gestaozabele/membros/internal/util"
)

// Service verifica tokens de convite.
type Service struct {
	repo *Repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Verify devolve o convite associado a um token válido. Nunca consome o token.
func (s *Service) Verify(ctx context.Context, token string) (*Convite, error) {
	if err := util.ValidateStruct(TokenInput{Token: token}); err != nil {
		return nil, err
	}
	return s.repo.FindValid(ctx, token)
}
