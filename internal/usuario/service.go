package usuario

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/membros/internal/auth"
	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/metrics"
	"github.com/gestaozabele/membros/internal/util"
)

// Service conclui cadastros a partir de convites.
type Service struct {
	conn     db.Beginner
	repo     *Repository
	convites *convite.Repository
	hash     func(string) (string, error)
	now      func() time.Time
}

// NewService cria uma nova instância do serviço.
func NewService(conn db.Beginner) *Service {
	return &Service{
		conn:     conn,
		repo:     NewRepository(conn),
		convites: convite.NewRepository(conn),
		hash:     auth.Hash,
		now:      time.Now,
	}
}

// Register resgata o convite e cria o usuário na mesma transação.
// O convite é lido com FOR UPDATE; um resgate concorrente do mesmo token espera o commit e
// depois não encontra mais convite válido.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Usuario, error) {
	input = input.Normalize()
	if err := util.ValidateStruct(input); err != nil {
		return nil, err
	}

	// O hash é calculado antes de abrir a transação para não segurar o lock da linha durante ~100ms.
	senhaHash, err := s.hash(input.Senha)
	if err != nil {
		return nil, err
	}

	var created *Usuario
	err = db.WithTx(ctx, s.conn, func(ctx context.Context, tx pgx.Tx) error {
		convites := s.convites.WithTx(tx)

		inv, err := convites.LockValid(ctx, input.Token)
		if err != nil {
			return err
		}
		// Além do filtro do SELECT (relógio do banco), o convite precisa estar válido no relógio do serviço.
		if !inv.Valid(s.now()) {
			return convite.ErrInvalidInvitation
		}

		created, err = s.repo.WithTx(tx).create(ctx, createParams{
			Nome:      input.Nome,
			Email:     inv.Email,
			SenhaHash: senhaHash,
			Empresa:   input.Empresa,
			ConviteID: inv.ID,
		})
		if err != nil {
			return err
		}

		return convites.MarkUsed(ctx, inv.ID)
	})
	if err != nil {
		metrics.Registrations.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	metrics.Registrations.WithLabelValues("ok").Inc()
	return created, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, convite.ErrInvalidInvitation):
		return "invalid_invitation"
	case errors.Is(err, ErrEmailRegistered):
		return "email_registered"
	default:
		return "error"
	}
}
