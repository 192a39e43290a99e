package intencao

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/util"
)

var (
	// ErrDuplicateEmail indica que o email já possui intenção registrada.
	ErrDuplicateEmail = errors.New("email já submetido")
	// ErrNotFoundOrProcessed cobre intenção inexistente e intenção já decidida.
	ErrNotFoundOrProcessed = errors.New("intenção não encontrada ou já processada")
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Intencao representa o pedido de adesão de um candidato.
type Intencao struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Empresa   *string   `json:"empresa"`
	Motivo    *string   `json:"motivo"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput é o payload de submissão.
type CreateInput struct {
	Nome    string  `json:"nome" validate:"required,min=3" msg:"Nome é obrigatório"`
	Email   string  `json:"email" validate:"required,email" msg:"Email inválido."`
	Empresa *string `json:"empresa" validate:"omitempty,max=200" msg:"Empresa deve ter no máximo 200 caracteres."`
	Motivo  *string `json:"motivo" validate:"omitempty,max=2000" msg:"Motivo deve ter no máximo 2000 caracteres."`
}

// Normalize aplica trim, email em minúsculas e opcionais vazios como ausentes.
func (in CreateInput) Normalize() CreateInput {
	return CreateInput{
		Nome:    strings.TrimSpace(in.Nome),
		Email:   util.NormalizeEmail(in.Email),
		Empresa: util.TrimOptional(in.Empresa),
		Motivo:  util.TrimOptional(in.Motivo),
	}
}

// StatusInput é o payload da decisão administrativa.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=approved rejected" msg:"Status deve ser 'approved' ou 'rejected'."`
}

// StatusResult agrega a intenção decidida e o convite emitido (nil quando rejeitada).
type StatusResult struct {
	Intencao *Intencao       `json:"intencao"`
	Convite  *convite.Convite `json:"convite"`
}
