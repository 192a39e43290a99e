package convite

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInvitation cobre token inexistente, expirado ou já utilizado.
	ErrInvalidInvitation = errors.New("convite inválido, expirado ou já utilizado")
)

// Convite é o direito de uso único e temporário de concluir o cadastro.
type Convite struct {
	ID         uuid.UUID  `json:"id"`
	IntencaoID uuid.UUID  `json:"intencao_id"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	ExpiraEm   time.Time  `json:"expira_em"`
	UsadoEm    *time.Time `json:"usado_em"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Valid reporta se o convite ainda pode ser resgatado no instante informado.
func (c Convite) Valid(now time.Time) bool {
	return c.UsadoEm == nil && c.ExpiraEm.After(now)
}

// CreateInput encapsula os campos de um novo convite.
type CreateInput struct {
	IntencaoID uuid.UUID
	Email      string
	Token      string
	ExpiraEm   time.Time
}

// TokenInput é o formato aceito na verificação.
type TokenInput struct {
	Token string `json:"token" validate:"len=64" msg:"Token inválido."`
}
