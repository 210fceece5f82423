package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/adapter/repository/postgres"
	"github.com/iho/paywal/internal/domain"
	infrapg "github.com/iho/paywal/internal/infrastructure/postgres"
)

const migrationsPath = "../../../infrastructure/postgres/migrations"

// testDB provides a migrated database for integration tests.
type testDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// newTestDB connects to TEST_DATABASE_URL, skipping the test when it is unset.
func newTestDB(t *testing.T) *testDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := infrapg.RunMigrations(dbURL, migrationsPath, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPool(ctx, dbURL, 20, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &testDB{Pool: pool, t: t}
	db.truncateAll(ctx)
	t.Cleanup(pool.Close)

	return db
}

func (db *testDB) truncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE outbox_events;
		TRUNCATE TABLE transfer_records, accounts CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

func (db *testDB) createAccount(ctx context.Context, owner string, balance decimal.Decimal) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             ulid.Make().String(),
		OwnerID:        owner,
		Balance:        balance,
		OpeningBalance: balance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := postgres.NewAccountRepository(db.Pool).Create(ctx, account); err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return account
}
