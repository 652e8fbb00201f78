package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"breachguard/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_pgcrypto",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	},
	{
		Name: "create_table_checks",
		SQL: `CREATE TABLE IF NOT EXISTS checks (
  id         UUID        PRIMARY KEY DEFAULT gen_random_uuid(),
  email      TEXT        NOT NULL,
  found      BOOLEAN     NOT NULL,
  count      INTEGER     NOT NULL CHECK (count >= 0),
  breaches   JSONB       NOT NULL DEFAULT '[]'::jsonb,
  source     TEXT        NOT NULL CHECK (source IN ('hibp', 'demo')),
  is_demo    BOOLEAN     NOT NULL,
  checked_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_checks_email",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_checks_email ON checks (email);`,
	},
	{
		Name: "create_index_checks_checked_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks (checked_at);`,
	},
}

// EnsureMigrated creates the checks schema unless the checks table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()
	log := logger.Get(ctx).With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check")

	var exists bool
	const query = "SELECT to_regclass('public.checks') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", zap.Duration("duration", time.Since(start)))
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("step_duration", time.Since(stepStart)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))

	return nil
}
