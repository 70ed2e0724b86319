package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx"
	"github.com/jmoiron/sqlx"
)

// EnvDSN - переменная с DSN тестовой базы. Без неё тесты с базой пропускаются.
const EnvDSN = "PG_TEST_DSN"

// Connect подключается к тестовой базе и накатывает миграции. Соединение
// закрывается в t.Cleanup.
func Connect(t testing.TB, migrations ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Fatalf("sqlx.Connect: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	if err = MigrateFromFile(context.Background(), db, migrations...); err != nil {
		t.Fatalf("dbtest.MigrateFromFile: %v", err)
	}

	return db
}

// MigrateFromFile выполняет SQL из файлов по порядку.
func MigrateFromFile(ctx context.Context, db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		query, err := os.ReadFile(fileName)
		if err != nil {
			return fmt.Errorf("os.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("db.ExecContext(%s): %w", fileName, err)
		}
	}

	return nil
}
