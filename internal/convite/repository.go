package convite

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/repo"
	"github.com/gestaozabele/membros/internal/util"
)

const columns = `id, intencao_id, email, token, expira_em, usado_em, created_at`

// Repository provê acesso à tabela convites.
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

// Create insere um convite novo.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Convite, error) {
	const query = `
        INSERT INTO convites (id, intencao_id, email, token, expira_em)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + columns

	row := r.db.QueryRow(ctx, query,
		util.NewID(),
		input.IntencaoID,
		input.Email,
		input.Token,
		input.ExpiraEm,
	)
	return scanConvite(row)
}

// FindValid busca convite não usado e não expirado, sem travar a linha.
func (r *Repository) FindValid(ctx context.Context, token string) (*Convite, error) {
	const query = `
        SELECT ` + columns + `
        FROM convites
        WHERE token = $1 AND usado_em IS NULL AND expira_em > now()
    `

	return scanConvite(r.db.QueryRow(ctx, query, token))
}

// LockValid busca convite válido travando a linha até o fim da transação.
// Um segundo resgate concorrente espera o commit e então não encontra mais a linha válida.
func (r *Repository) LockValid(ctx context.Context, token string) (*Convite, error) {
	const query = `
        SELECT ` + columns + `
        FROM convites
        WHERE token = $1 AND usado_em IS NULL AND expira_em > now()
        FOR UPDATE
    `

	return scanConvite(r.db.QueryRow(ctx, query, token))
}

// MarkUsed registra o uso do convite.
func (r *Repository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE convites SET usado_em = now() WHERE id = $1 AND usado_em IS NULL`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return repo.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidInvitation
	}
	return nil
}

func scanConvite(row pgx.Row) (*Convite, error) {
	var c Convite
	if err := row.Scan(&c.ID, &c.IntencaoID, &c.Email, &c.Token, &c.ExpiraEm, &c.UsadoEm, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInvitation
		}
		return nil, repo.Classify(err)
	}
	return &c, nil
}
