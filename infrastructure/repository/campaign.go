package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/leverads/meta-sync-api/infrastructure/database/postgres"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/pkg/errors"
)

//go:generate mockgen -source=campaign.go -destination=mocks/campaign.go -package=mocks

const campaignsTable = "campaigns"

type CampaignRepository interface {
	Upsert(ctx context.Context, campaign *domain.Campaign) error
}

type campaignRepository struct {
	conn postgres.Queryer
}

func NewCampaignRepository(conn postgres.Queryer) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

// Upsert grava a campanha; em conflito de id todas as colunas são sobrescritas
func (r *campaignRepository) Upsert(ctx context.Context, campaign *domain.Campaign) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(campaignsTable).
		Columns("id", "account_id", "name", "objective", "status", "daily_budget", "lifetime_budget", "last_updated_at").
		Values(
			campaign.ID,
			campaign.AccountID,
			campaign.Name,
			campaign.Objective,
			campaign.Status,
			campaign.DailyBudget,
			campaign.LifetimeBudget,
			campaign.LastUpdatedAt,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				account_id = EXCLUDED.account_id,
				name = EXCLUDED.name,
				objective = EXCLUDED.objective,
				status = EXCLUDED.status,
				daily_budget = EXCLUDED.daily_budget,
				lifetime_budget = EXCLUDED.lifetime_budget,
				last_updated_at = EXCLUDED.last_updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError(err, "erro ao gravar campanha")
	}

	return nil
}
