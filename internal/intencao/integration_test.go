package intencao_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/db/migrations"
	"github.com/gestaozabele/membros/internal/intencao"
	"github.com/gestaozabele/membros/internal/notify"
)

// Exercita o UPDATE condicional contra Postgres real; sem TEST_DB_DSN é pulado.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_DB_DSN"))
	if dsn == "" {
		t.Skip("TEST_DB_DSN não definido")
	}

	require.NoError(t, migrations.Up(dsn))

	pool, err := db.NewPool(context.Background(), dsn, db.PoolOptions{MaxConns: 16, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type silentNotifier struct{}

func (silentNotifier) NotifyApproval(context.Context, notify.ApprovalEvent) error { return nil }

func TestConcurrentTransitionsIssueOneInvitation(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	svc := intencao.NewService(pool, intencao.Options{Notifier: silentNotifier{}})

	item, err := svc.Create(ctx, intencao.CreateInput{
		Nome:  "Ana Souza",
		Email: "concorrente+" + uuid.NewString()[:8] + "@x.com",
	})
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		processed int
	)
	for i := 0; i < workers; i++ {
		status := intencao.StatusApproved
		if i%2 == 1 {
			status = intencao.StatusRejected
		}
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, err := svc.UpdateStatus(ctx, item.ID, status)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, intencao.ErrNotFoundOrProcessed):
				processed++
			default:
				t.Errorf("erro inesperado: %v", err)
			}
		}(status)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, processed)

	var status string
	require.NoError(t, pool.QueryRow(ctx, "SELECT status FROM intencoes WHERE id = $1", item.ID).Scan(&status))

	var convites int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM convites WHERE intencao_id = $1", item.ID).Scan(&convites))

	if status == intencao.StatusApproved {
		assert.Equal(t, 1, convites)
	} else {
		assert.Equal(t, intencao.StatusRejected, status)
		assert.Equal(t, 0, convites)
	}

	_, err = svc.UpdateStatus(ctx, item.ID, intencao.StatusApproved)
	assert.ErrorIs(t, err, intencao.ErrNotFoundOrProcessed)
}
