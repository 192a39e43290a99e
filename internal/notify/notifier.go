package notify

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ApprovalEvent descreve uma intenção aprovada aguardando envio do e-mail de convite.
type ApprovalEvent struct {
	IntencaoID uuid.UUID `json:"intencao_id"`
	ConviteID  uuid.UUID `json:"convite_id"`
	Nome       string    `json:"nome"`
	Email      string    `json:"email"`
	Token      string    `json:"token"`
	Link       string    `json:"link"`
	ExpiraEm   time.Time `json:"expira_em"`
}

// Notifier publica eventos de aprovação para despacho posterior.
type Notifier interface {
	NotifyApproval(ctx context.Context, evt ApprovalEvent) error
}

// RegisterLink monta o link de cadastro a partir da URL base.
func RegisterLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return ""
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// LogNotifier registra a aprovação no log operacional.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyApproval(ctx context.Context, evt ApprovalEvent) error {
	// o token fica fora do log
	n.logger.Info().
		Str("intencao_id", evt.IntencaoID.String()).
		Str("convite_id", evt.ConviteID.String()).
		Str("email", evt.Email).
		Time("expira_em", evt.ExpiraEm).
		Msg("enviar email de aprovação")
	return nil
}

// Multi repassa o evento para todos os notificadores e junta as falhas.
type Multi []Notifier

func (m Multi) NotifyApproval(ctx context.Context, evt ApprovalEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyApproval(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
