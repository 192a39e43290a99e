package usuario

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/repo"
	"github.com/gestaozabele/membros/internal/util"
)

const constraintEmailUnico = "usuarios_email_key"

// Repository provê acesso à tabela usuarios.
type Repository struct {
	db db.DBTX
}

// NewRepository cria instância do repositório.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// WithTx devolve cópia do repositório ligada à transação.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) create(ctx context.Context, p createParams) (*Usuario, error) {
	const query = `
        INSERT INTO usuarios (id, nome, email, senha_hash, empresa, tipo, ativo, convite_id)
        VALUES ($1, $2, $3, $4, $5, $6, true, $7)
        RETURNING id, nome, email, empresa, tipo, ativo, created_at
    `

	row := r.db.QueryRow(ctx, query,
		util.NewID(),
		p.Nome,
		p.Email,
		p.SenhaHash,
		p.Empresa,
		TipoMembro,
		p.ConviteID,
	)

	var u Usuario
	if err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.Empresa, &u.Tipo, &u.Ativo, &u.CreatedAt); err != nil {
		if db.IsUniqueViolation(err, constraintEmailUnico) {
			return nil, ErrEmailRegistered
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, repo.Classify(err)
	}
	return &u, nil
}
