package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
	"github.com/gharkakhana/cloud-kitchen/internal/order/infrastructure/postgres"
	"github.com/gharkakhana/cloud-kitchen/pkg/logging"
)

// Requires docker; enable with INTEGRATION=1.
func TestPostgresRepository(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run container-backed tests")
	}

	ctx := context.Background()
	env, err := Setup(ctx)
	require.NoError(t, err)
	defer env.Teardown(ctx)

	pool, err := pgxpool.New(ctx, env.PGURL)
	require.NoError(t, err)
	defer pool.Close()

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	repo := postgres.NewRepository(logging.New(), pool)

	o := domain.NewOrder("it-1", domain.Customer{
		Name: "Asha", Phone: "+91 98765 43210", Address: "12 MG Road",
	}, []domain.OrderItem{
		{ID: "dal-tadka", Name: "Dal Tadka", Quantity: 2, Price: 160},
	}, "UPI", "less spicy")

	require.NoError(t, repo.Create(ctx, o, "OrderPlaced", []byte(`{}`), ""))

	got, err := repo.Get(ctx, "it-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPlaced, got.Status)
	require.Equal(t, 320.0, got.Total)
	require.Equal(t, "919876543210", got.Customer.Phone)
	require.Len(t, got.Items, 1)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	stamp := time.Now().UTC().Truncate(time.Microsecond)
	updated, err := repo.UpdateStatus(ctx, "it-1", domain.StatusConfirmed, stamp, "OrderStatusChanged", []byte(`{}`), "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, updated.Status)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// both mutations left an outbox row behind
	var pending int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM outbox WHERE status='pending'`).Scan(&pending))
	require.Equal(t, 2, pending)
}
