package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"hyperliquid-vault-lab/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded vault metrics schema to the
// pool's database. Each file runs as a single Exec; the files are written
// to be idempotent so a service restart can always re-apply them.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := sqlFiles(PostgresFS, "postgres")
	if err != nil {
		return fmt.Errorf("read embedded postgres migrations: %w", err)
	}

	for _, file := range files {
		sql, err := fs.ReadFile(PostgresFS, "postgres/"+file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if strings.TrimSpace(string(sql)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}

	return nil
}
