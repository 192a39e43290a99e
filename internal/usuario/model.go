package usuario

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestaozabele/membros/internal/util"
)

// ErrEmailRegistered indica que já existe usuário com o email do convite.
var ErrEmailRegistered = errors.New("email já cadastrado na plataforma")

// TipoMembro é o papel fixo de quem entra por convite.
const TipoMembro = "member"

// Usuario expõe apenas os campos públicos; o hash da senha nunca sai do repositório.
type Usuario struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Empresa   *string   `json:"empresa"`
	Tipo      string    `json:"tipo"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterInput é o payload de cadastro por convite.
type RegisterInput struct {
	Token   string  `json:"token" validate:"len=64" msg:"Token inválido."`
	Nome    string  `json:"nome" validate:"required,min=3" msg:"Nome deve ter pelo menos 3 caracteres."`
	Empresa *string `json:"empresa" validate:"omitempty,max=200" msg:"Empresa deve ter no máximo 200 caracteres."`
	Senha   string  `json:"senha" validate:"min=8" msg:"Senha deve ter pelo menos 8 caracteres."`
}

// Normalize apara nome e empresa; token e senha seguem exatamente como recebidos.
func (in RegisterInput) Normalize() RegisterInput {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Empresa = util.TrimOptional(in.Empresa)
	return in
}

type createParams struct {
	Nome      string
	Email     string
	SenhaHash string
	Empresa   *string
	ConviteID uuid.UUID
}
