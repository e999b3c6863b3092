package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/leverads/meta-sync-api/infrastructure/database/postgres"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/pkg/errors"
)

//go:generate mockgen -source=credential.go -destination=mocks/credential.go -package=mocks

const connectionsTable = "ad_platform_connections"

// CredentialRepository só lê; as conexões são gravadas pelo fluxo de OAuth
type CredentialRepository interface {
	ListConnected(ctx context.Context) ([]domain.Credential, error)
}

type credentialRepository struct {
	conn postgres.Queryer
}

func NewCredentialRepository(conn postgres.Queryer) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

func (r *credentialRepository) ListConnected(ctx context.Context) ([]domain.Credential, error) {
	query, args, err := squirrel.
		Select("id", "access_token", "display_name", "status").
		From(connectionsTable).
		Where(squirrel.Eq{"status": domain.CredentialStatusConnected}).
		Where(squirrel.NotEq{"access_token": nil}).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	credentials := make([]domain.Credential, 0)
	if err := r.conn.SelectContext(ctx, &credentials, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao listar conexões")
	}

	return credentials, nil
}
