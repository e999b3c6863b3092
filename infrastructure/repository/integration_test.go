//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/leverads/meta-sync-api/infrastructure/migration"
	"github.com/leverads/meta-sync-api/internal/domain"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("leverads_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db

	version, err := migration.Apply(s.ctx, s.db)
	s.Require().NoError(err)
	s.Equal(migration.Latest(), version)
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM insights")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM campaigns")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM ad_platform_connections")
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func ptr[T any](v T) *T {
	return &v
}

func (s *RepositoryIntegrationSuite) findCampaign(id string) *domain.Campaign {
	campaign := &domain.Campaign{}
	err := s.db.GetContext(s.ctx, campaign, `
		SELECT id, account_id, name, objective, status, daily_budget, lifetime_budget, last_updated_at
		FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	s.Require().NoError(err)
	return campaign
}

// findInsight devolve a linha gravada e o updated_at dela
func (s *RepositoryIntegrationSuite) findInsight(entityID string, date time.Time) (*domain.Insight, time.Time) {
	var row struct {
		domain.Insight
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := s.db.GetContext(s.ctx, &row, `
		SELECT entity_id, entity_type, date, spend, impressions, clicks, revenue, conversions, roas, updated_at
		FROM insights WHERE entity_id = $1 AND entity_type = $2 AND date = $3`,
		entityID, string(domain.EntityTypeCampaign), date.Format(time.DateOnly))
	s.Require().NoError(err)
	return &row.Insight, row.UpdatedAt
}

func (s *RepositoryIntegrationSuite) countRows(query string, args ...any) int {
	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, query, args...))
	return count
}

func (s *RepositoryIntegrationSuite) TestMigration_Idempotente() {
	version, err := migration.Apply(s.ctx, s.db)

	s.NoError(err)
	s.Equal(migration.Latest(), version)
}

func (s *RepositoryIntegrationSuite) TestCampaignRepository_Upsert() {
	repo := NewCampaignRepository(s.db)
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	campaign := &domain.Campaign{
		ID:            "c1",
		AccountID:     "act_1",
		Name:          "Campanha",
		Objective:     "OUTCOME_SALES",
		Status:        "ACTIVE",
		DailyBudget:   ptr(50.0),
		LastUpdatedAt: first,
	}
	s.Require().NoError(repo.Upsert(s.ctx, campaign))

	stored := s.findCampaign("c1")
	s.Require().NotNil(stored)
	s.Require().NotNil(stored.DailyBudget)
	s.Equal(50.0, *stored.DailyBudget)
	s.Nil(stored.LifetimeBudget)
	s.True(first.Equal(stored.LastUpdatedAt))

	// Segunda gravação sobrescreve todas as colunas
	second := first.Add(time.Hour)
	campaign.Name = "Campanha renomeada"
	campaign.DailyBudget = nil
	campaign.LifetimeBudget = ptr(1234.56)
	campaign.LastUpdatedAt = second
	s.Require().NoError(repo.Upsert(s.ctx, campaign))

	s.Equal(1, s.countRows("SELECT COUNT(*) FROM campaigns WHERE account_id = $1", "act_1"))
	stored = s.findCampaign("c1")
	s.Require().NotNil(stored)
	s.Equal("Campanha renomeada", stored.Name)
	s.Nil(stored.DailyBudget)
	s.Equal(1234.56, *stored.LifetimeBudget)
	s.True(second.Equal(stored.LastUpdatedAt))
}

func (s *RepositoryIntegrationSuite) TestCampaignRepository_CampanhasDistintas() {
	repo := NewCampaignRepository(s.db)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for _, id := range []string{"c1", "c2"} {
		s.Require().NoError(repo.Upsert(s.ctx, &domain.Campaign{
			ID:            id,
			AccountID:     "act_1",
			Name:          "Campanha " + id,
			Status:        "PAUSED",
			LastUpdatedAt: now,
		}))
	}

	s.Equal(2, s.countRows("SELECT COUNT(*) FROM campaigns WHERE account_id = $1", "act_1"))
	s.Nil(s.findCampaign("nao-existe"))
}

func (s *RepositoryIntegrationSuite) TestInsightRepository_UpsertIdempotente() {
	repo := NewInsightRepository(s.db)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	insight := &domain.Insight{
		EntityID:    "c1",
		EntityType:  domain.EntityTypeCampaign,
		Date:        day,
		Spend:       10,
		Impressions: 100,
		Clicks:      5,
		Revenue:     30,
		Conversions: 1,
		ROAS:        3,
	}
	s.Require().NoError(repo.Upsert(s.ctx, insight))
	_, firstUpdatedAt := s.findInsight("c1", day)

	time.Sleep(10 * time.Millisecond)
	s.Require().NoError(repo.Upsert(s.ctx, insight))
	_, sameUpdatedAt := s.findInsight("c1", day)
	s.True(firstUpdatedAt.Equal(sameUpdatedAt), "regravar as mesmas métricas não deve mover updated_at")

	time.Sleep(10 * time.Millisecond)

	// Atribuição tardia corrige a mesma linha
	insight.Conversions = 2
	insight.Revenue = 60
	insight.ROAS = 6
	s.Require().NoError(repo.Upsert(s.ctx, insight))

	other := *insight
	other.Date = day.AddDate(0, 0, 1)
	s.Require().NoError(repo.Upsert(s.ctx, &other))

	s.Equal(2, s.countRows("SELECT COUNT(*) FROM insights WHERE entity_id = $1", "c1"))

	stored, updatedAt := s.findInsight("c1", day)
	s.Equal(int64(2), stored.Conversions)
	s.Equal(60.0, stored.Revenue)
	s.Equal(6.0, stored.ROAS)
	s.Equal(int64(100), stored.Impressions)
	s.True(updatedAt.After(firstUpdatedAt))
}

func (s *RepositoryIntegrationSuite) TestCredentialRepository_ListConnected() {
	_, err := s.db.ExecContext(s.ctx, `
		INSERT INTO ad_platform_connections (id, access_token, display_name, status, created_at) VALUES
			('conn-2', 'token-2', 'Segunda', 'connected', NOW()),
			('conn-1', 'token-1', 'Primeira', 'connected', NOW() - INTERVAL '1 day'),
			('conn-3', NULL, 'Sem token', 'connected', NOW()),
			('conn-4', 'token-4', 'Desconectada', 'disconnected', NOW())
	`)
	s.Require().NoError(err)

	repo := NewCredentialRepository(s.db)

	credentials, err := repo.ListConnected(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(credentials, 2)
	s.Equal("conn-1", credentials[0].ConnectionID)
	s.Equal("token-1", credentials[0].Token())
	s.Equal("conn-2", credentials[1].ConnectionID)
	s.True(credentials[1].IsEligible())
}
