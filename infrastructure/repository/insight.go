package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/leverads/meta-sync-api/infrastructure/database/postgres"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/pkg/errors"
)

//go:generate mockgen -source=insight.go -destination=mocks/insight.go -package=mocks

const insightsTable = "insights"

type InsightRepository interface {
	Upsert(ctx context.Context, insight *domain.Insight) error
}

type insightRepository struct {
	conn postgres.Queryer
}

func NewInsightRepository(conn postgres.Queryer) InsightRepository {
	return &insightRepository{
		conn: conn,
	}
}

// Upsert grava o insight diário; a chave é (entity_id, entity_type, date).
// Métricas iguais às gravadas não tocam a linha, nem updated_at.
func (r *insightRepository) Upsert(ctx context.Context, insight *domain.Insight) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(insightsTable).
		Columns("entity_id", "entity_type", "date", "spend", "impressions", "clicks", "revenue", "conversions", "roas").
		Values(
			insight.EntityID,
			string(insight.EntityType),
			insight.Date.Format(time.DateOnly),
			insight.Spend,
			insight.Impressions,
			insight.Clicks,
			insight.Revenue,
			insight.Conversions,
			insight.ROAS,
		).
		Suffix(`
			ON CONFLICT (entity_id, entity_type, date) DO UPDATE SET
				spend = EXCLUDED.spend,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				revenue = EXCLUDED.revenue,
				conversions = EXCLUDED.conversions,
				roas = EXCLUDED.roas,
				updated_at = NOW()
			WHERE (insights.spend, insights.impressions, insights.clicks, insights.revenue, insights.conversions, insights.roas)
				IS DISTINCT FROM (EXCLUDED.spend, EXCLUDED.impressions, EXCLUDED.clicks, EXCLUDED.revenue, EXCLUDED.conversions, EXCLUDED.roas)
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError(err, "erro ao gravar insight")
	}

	return nil
}
