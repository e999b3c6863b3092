package migration

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Apply executa as migrações pendentes e devolve a versão final do schema
func Apply(ctx context.Context, db *sqlx.DB) (int, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("erro ao criar tabela de versões: %w", err)
	}

	var current int
	if err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return 0, fmt.Errorf("erro ao obter versão atual: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return current, fmt.Errorf("erro ao iniciar transação da migração %d: %w", version, err)
		}

		for _, stmt := range migrations[i] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return current, fmt.Errorf("erro na migração %d: %w", version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			_ = tx.Rollback()
			return current, fmt.Errorf("erro ao registrar migração %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return current, fmt.Errorf("erro ao confirmar migração %d: %w", version, err)
		}

		current = version
		logrus.WithField("version", version).Info("Migração aplicada com sucesso")
	}

	return current, nil
}

// Latest é a versão mais recente conhecida
func Latest() int {
	return len(migrations)
}
