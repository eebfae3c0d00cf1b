//go:build integration

package persistence

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/m77ag/backend/internal/domain/finance"
	"github.com/m77ag/backend/internal/domain/shared"
	"github.com/m77ag/backend/internal/infrastructure/config"
	"github.com/m77ag/backend/internal/infrastructure/migration"
	"github.com/m77ag/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// newPostgres starts a throwaway PostgreSQL, applies the embedded SQL
// migrations and connects through the production constructor
func newPostgres(t *testing.T) (*Database, *migration.Migrator) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("farm_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("farm-test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{
		Host:            host,
		Port:            portNum,
		User:            "postgres",
		Password:        "farm-test",
		DBName:          "farm_test",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db, m
}

func TestPostgres_MigrationsApplyAndRollBack(t *testing.T) {
	db, m := newPostgres(t)
	ctx := context.Background()

	list, err := migration.ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, list[len(list)-1].Version, version)

	require.NoError(t, db.Ping(ctx))

	require.NoError(t, m.Down())
	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, list[len(list)-1].Version, version)
}

func TestPostgres_InvoiceRepository(t *testing.T) {
	db, _ := newPostgres(t)
	ctx := context.Background()
	repo := NewGormInvoiceRepository(db.DB)

	for _, n := range []string{"INV-2026-0001", "INV-2026-0002"} {
		require.NoError(t, repo.Save(ctx, newTestInvoice(t, n)))
	}
	next, err := repo.NextInvoiceNumber(ctx, "INV", 2026)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0003", next)

	assert.ErrorIs(t, repo.Save(ctx, newTestInvoice(t, "INV-2026-0002")), shared.ErrAlreadyExists)

	sent := newTestInvoice(t, "INV-2026-0003")
	require.NoError(t, repo.Save(ctx, sent))
	first, err := repo.FindByID(ctx, sent.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, sent.ID)
	require.NoError(t, err)

	require.NoError(t, first.Send(first.IssueDate))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.Send(second.IssueDate))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, second), shared.ErrConcurrencyConflict)

	open, err := repo.FindByStatuses(ctx, finance.OutstandingInvoiceStatuses()...)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].Total.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, "Sale Barn", open[0].Customer.Name)
}

func TestPostgres_CattleRoundTrip(t *testing.T) {
	db, _ := newPostgres(t)
	ctx := context.Background()
	repo := NewGormCattleRepository(db.DB)

	cow := newCow(t, "M77-101")
	require.NoError(t, repo.Save(ctx, cow))

	got, err := repo.FindByID(ctx, cow.ID)
	require.NoError(t, err)
	assert.Equal(t, cow.TagNumber, got.TagNumber)
	assert.Equal(t, cow.Version, got.Version)
}

func TestPostgres_FieldRoundTrip(t *testing.T) {
	db, _ := newPostgres(t)
	ctx := context.Background()
	fields := NewGormFieldRepository(db.DB)

	north := newTestField(t, "North", 80)
	require.NoError(t, fields.Save(ctx, north))

	got, err := fields.FindByID(ctx, north.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corn", got.Crops[2026])
	assert.True(t, got.Acres.Equal(decimal.NewFromInt(80)))
}
