package intencao

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/repo"
	"github.com/gestaozabele/membros/internal/util"
)

const (
	columns              = `id, nome, email, empresa, motivo, status, created_at, updated_at`
	constraintEmailUnico = "intencoes_email_key"
)

// Repository provê acesso à tabela intencoes.
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

// Create insere intenção pendente. Email repetido vira ErrDuplicateEmail pela constraint única.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Intencao, error) {
	const query = `
        INSERT INTO intencoes (id, nome, email, empresa, motivo, status)
        VALUES ($1, $2, $3, $4, $5, 'pending')
        RETURNING ` + columns

	row := r.db.QueryRow(ctx, query,
		util.NewID(),
		input.Nome,
		input.Email,
		input.Empresa,
		input.Motivo,
	)

	item, err := scanIntencao(row)
	if err != nil {
		if db.IsUniqueViolation(err, constraintEmailUnico) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return item, nil
}

// List devolve todas as intenções, mais recentes primeiro.
func (r *Repository) List(ctx context.Context, status string) ([]Intencao, error) {
	query := `SELECT ` + columns + ` FROM intencoes`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, repo.Classify(err)
	}
	defer rows.Close()

	items := []Intencao{}
	for rows.Next() {
		item, err := scanIntencao(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if rows.Err() != nil {
		return nil, repo.Classify(rows.Err())
	}

	return items, nil
}

// TransitionFromPending muda o status apenas se a linha ainda estiver pendente.
// O predicado sobre status é o guarda de concorrência: a segunda transação espera o lock da
// primeira, reavalia o WHERE após o commit e não encontra mais a linha.
func (r *Repository) TransitionFromPending(ctx context.Context, id uuid.UUID, status string) (*Intencao, error) {
	const query = `
        UPDATE intencoes
        SET status = $1, updated_at = now()
        WHERE id = $2 AND status = 'pending'
        RETURNING ` + columns

	item, err := scanIntencao(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFoundOrProcessed
		}
		return nil, err
	}
	return item, nil
}

func scanIntencao(row pgx.Row) (*Intencao, error) {
	var i Intencao
	if err := row.Scan(&i.ID, &i.Nome, &i.Email, &i.Empresa, &i.Motivo, &i.Status, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, repo.Classify(err)
	}
	return &i, nil
}
