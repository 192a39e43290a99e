package intencao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gestaozabele/membros/internal/auth"
	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/metrics"
	"github.com/gestaozabele/membros/internal/notify"
	"github.com/gestaozabele/membros/internal/util"
)

// Service reúne as regras de intake e da decisão administrativa.
type Service struct {
	conn        db.Beginner
	repo        *Repository
	convites    *convite.Repository
	notifier    notify.Notifier
	logger      zerolog.Logger
	inviteTTL   time.Duration
	registerURL string
	now         func() time.Time
	newToken    func() (string, error)

	notifyTimeout time.Duration
}

const defaultNotifyTimeout = 5 * time.Second

// Options ajusta o serviço; zero values usam os defaults.
type Options struct {
	InviteTTL   time.Duration
	RegisterURL string
	Notifier    notify.Notifier
	Logger      zerolog.Logger
}

// NewService cria uma nova instância do serviço.
func NewService(conn db.Beginner, opts Options) *Service {
	if opts.InviteTTL <= 0 {
		opts.InviteTTL = 7 * 24 * time.Hour
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(opts.Logger)
	}
	return &Service{
		conn:        conn,
		repo:        NewRepository(conn),
		convites:    convite.NewRepository(conn),
		notifier:    notifier,
		logger:      opts.Logger,
		inviteTTL:   opts.InviteTTL,
		registerURL: opts.RegisterURL,
		now:         time.Now,
		newToken:    auth.GenerateInviteToken,

		notifyTimeout: defaultNotifyTimeout,
	}
}

// Create registra nova intenção pendente.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Intencao, error) {
	input = input.Normalize()
	if err := util.ValidateStruct(input); err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsSubmitted.Inc()
	return item, nil
}

// List devolve intenções da mais recente para a mais antiga; status vazio lista todas.
func (s *Service) List(ctx context.Context, status string) ([]Intencao, error) {
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, util.NewValidationError("status", "Status deve ser 'pending', 'approved' ou 'rejected'.")
	}
	return s.repo.List(ctx, status)
}

// UpdateStatus aprova ou rejeita uma intenção pendente em uma única transação.
// Na aprovação o convite é criado na mesma transação; qualquer falha desfaz as duas escritas.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*StatusResult, error) {
	input := StatusInput{Status: status}
	if err := util.ValidateStruct(input); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, util.NewValidationError("id", "ID da intenção é obrigatório.")
	}

	result := &StatusResult{}
	err := db.WithTx(ctx, s.conn, func(ctx context.Context, tx pgx.Tx) error {
		item, err := s.repo.WithTx(tx).TransitionFromPending(ctx, id, input.Status)
		if err != nil {
			return err
		}
		result.Intencao = item

		if input.Status != StatusApproved {
			return nil
		}

		token, err := s.newToken()
		if err != nil {
			return err
		}

		inv, err := s.convites.WithTx(tx).Create(ctx, convite.CreateInput{
			IntencaoID: item.ID,
			Email:      item.Email,
			Token:      token,
			ExpiraEm:   s.now().Add(s.inviteTTL),
		})
		if err != nil {
			return err
		}
		result.Convite = inv
		return nil
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrNotFoundOrProcessed) {
			outcome = "already_processed"
		}
		metrics.Transitions.WithLabelValues(input.Status, outcome).Inc()
		return nil, err
	}

	metrics.Transitions.WithLabelValues(input.Status, "ok").Inc()

	if result.Convite != nil {
		s.announce(ctx, result)
	}
	return result, nil
}

// announce só roda após o commit; falhas de notificação não desfazem a aprovação.
// O prazo é próprio: o contexto da requisição pode já estar perto de expirar ou ser cancelado.
func (s *Service) announce(ctx context.Context, result *StatusResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	evt := notify.ApprovalEvent{
		IntencaoID: result.Intencao.ID,
		ConviteID:  result.Convite.ID,
		Nome:       result.Intencao.Nome,
		Email:      result.Convite.Email,
		Token:      result.Convite.Token,
		Link:       notify.RegisterLink(s.registerURL, result.Convite.Token),
		ExpiraEm:   result.Convite.ExpiraEm,
	}
	if err := s.notifier.NotifyApproval(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("intencao_id", evt.IntencaoID.String()).Msg("falha ao publicar aprovação")
	}
}
