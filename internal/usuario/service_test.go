package usuario

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/membros/internal/convite"
	"github.com/gestaozabele/membros/internal/util"
)

var (
	conviteColumns = []string{"id", "intencao_id", "email", "token", "expira_em", "usado_em", "created_at"}
	usuarioColumns = []string{"id", "nome", "email", "empresa", "tipo", "ativo", "created_at"}
)

func newService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc := NewService(mock)
	svc.hash = func(p string) (string, error) { return "hash(" + p + ")", nil }
	return svc, mock
}

func strPtr(s string) *string { return &s }

func validInput(token string) RegisterInput {
	return RegisterInput{Token: token, Nome: "Ana", Senha: "12345678"}
}

func TestRegisterConsumesInvitation(t *testing.T) {
	svc, mock := newService(t)
	token := strings.Repeat("e", 64)
	conviteID, userID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE token = \$1 AND usado_em IS NULL AND expira_em > now\(\)\s+FOR UPDATE`).
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows(conviteColumns).
			AddRow(conviteID, uuid.New(), "ana@x.com", token, now.Add(time.Hour), (*time.Time)(nil), now))
	mock.ExpectQuery(`INSERT INTO usuarios`).
		WithArgs(pgxmock.AnyArg(), "Ana", "ana@x.com", "hash(12345678)", strPtr("Acme"), TipoMembro, conviteID).
		WillReturnRows(pgxmock.NewRows(usuarioColumns).
			AddRow(userID, "Ana", "ana@x.com", strPtr("Acme"), TipoMembro, true, now))
	mock.ExpectExec(`UPDATE convites SET usado_em = now\(\) WHERE id = \$1 AND usado_em IS NULL`).
		WithArgs(conviteID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	in := validInput(token)
	in.Nome = " Ana "
	in.Empresa = strPtr(" Acme ")

	user, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.Equal(t, TipoMembro, user.Tipo)
	assert.True(t, user.Ativo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterInvalidInvitationRollsBack(t *testing.T) {
	svc, mock := newService(t)
	token := strings.Repeat("f", 64)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(token).WillReturnRows(pgxmock.NewRows(conviteColumns))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), validInput(token))
	assert.ErrorIs(t, err, convite.ErrInvalidInvitation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmailRollsBack(t *testing.T) {
	svc, mock := newService(t)
	token := strings.Repeat("1", 64)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows(conviteColumns).
			AddRow(uuid.New(), uuid.New(), "ana@x.com", token, now.Add(time.Hour), (*time.Time)(nil), now))
	mock.ExpectQuery(`INSERT INTO usuarios`).
		WithArgs(pgxmock.AnyArg(), "Ana", "ana@x.com", "hash(12345678)", (*string)(nil), TipoMembro, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "usuarios_email_key"})
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), validInput(token))
	assert.ErrorIs(t, err, ErrEmailRegistered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterMarkUsedRaceRollsBack(t *testing.T) {
	svc, mock := newService(t)
	token := strings.Repeat("2", 64)
	conviteID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows(conviteColumns).
			AddRow(conviteID, uuid.New(), "ana@x.com", token, now.Add(time.Hour), (*time.Time)(nil), now))
	mock.ExpectQuery(`INSERT INTO usuarios`).
		WithArgs(pgxmock.AnyArg(), "Ana", "ana@x.com", "hash(12345678)", (*string)(nil), TipoMembro, conviteID).
		WillReturnRows(pgxmock.NewRows(usuarioColumns).
			AddRow(uuid.New(), "Ana", "ana@x.com", (*string)(nil), TipoMembro, true, now))
	mock.ExpectExec(`UPDATE convites`).
		WithArgs(conviteID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), validInput(token))
	assert.ErrorIs(t, err, convite.ErrInvalidInvitation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsInvitationExpiredAtLock(t *testing.T) {
	svc, mock := newService(t)
	token := strings.Repeat("3", 64)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows(conviteColumns).
			AddRow(uuid.New(), uuid.New(), "ana@x.com", token, now.Add(-time.Second), (*time.Time)(nil), now.Add(-7*24*time.Hour)))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), validInput(token))
	assert.ErrorIs(t, err, convite.ErrInvalidInvitation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	svc, mock := newService(t)
	hashed := false
	svc.hash = func(p string) (string, error) { hashed = true; return "", nil }

	_, err := svc.Register(context.Background(), RegisterInput{Token: "curto", Nome: "Al", Senha: "123"})
	vErr, ok := util.AsValidationError(err)
	require.True(t, ok)

	campos := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		campos = append(campos, f.Campo)
	}
	assert.Equal(t, []string{"token", "nome", "senha"}, campos)
	assert.Equal(t, "Senha deve ter pelo menos 8 caracteres.", vErr.Fields[2].Mensagem)
	assert.False(t, hashed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
