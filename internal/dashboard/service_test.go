package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM usuarios WHERE ativo = true`).
		WillReturnRows(pgxmock.NewRows([]string{"a", "b", "c", "d"}).AddRow(int64(12), int64(3), int64(4), int64(2)))

	st, err := NewService(mock).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{ActiveUsers: 12, PendingApplications: 3, InvitationsThisMonth: 4, RegistrationsThisMonth: 2}, st)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("relation does not exist"))

	_, err = NewService(mock).Stats(context.Background())
	assert.Error(t, err)
}
