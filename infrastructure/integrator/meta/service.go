package meta

import (
	"context"
	"math"
	"strconv"
	"time"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
	"github.com/leverads/meta-sync-api/infrastructure/integrator/meta/metaclient"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=service.go -destination=mocks/integrator.go -package=mocks

// Integrator expõe os dados da Meta já convertidos para o domínio
type Integrator interface {
	GetAdAccounts(ctx context.Context, accessToken string) ([]domain.AdAccount, error)
	GetCampaigns(ctx context.Context, accessToken, accountID string) ([]*domain.Campaign, error)
	GetCampaignInsights(ctx context.Context, accessToken, accountID string) ([]*domain.Insight, error)
}

type MetaIntegrator struct {
	cfg           *config.Config
	Client        metaclient.Client
	purchaseTypes metadomain.ActionPreference
}

func New(cfg *config.Config, client metaclient.Client, purchaseTypes metadomain.ActionPreference) *MetaIntegrator {
	if len(purchaseTypes) == 0 {
		purchaseTypes = metadomain.PurchaseActionTypes
	}

	return &MetaIntegrator{
		cfg:           cfg,
		Client:        client,
		purchaseTypes: purchaseTypes,
	}
}

func (s *MetaIntegrator) GetAdAccounts(ctx context.Context, accessToken string) ([]domain.AdAccount, error) {
	resp, err := s.Client.ListAdAccounts(ctx, accessToken)
	if err != nil {
		logrus.WithError(err).Error("accounts: failed to list ad accounts from API")
		return nil, err
	}

	accounts := make([]domain.AdAccount, 0, len(resp))
	for _, acc := range resp {
		accounts = append(accounts, domain.AdAccount{
			ID:     domain.NormalizeAccountID(acc.ID),
			Name:   acc.Name,
			Status: acc.AccountStatus,
		})
	}

	return accounts, nil
}

func (s *MetaIntegrator) GetCampaigns(ctx context.Context, accessToken, accountID string) ([]*domain.Campaign, error) {
	resp, err := s.Client.ListCampaigns(ctx, accessToken, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("campaigns: failed to get campaigns from API")
		return nil, err
	}

	campaigns := make([]*domain.Campaign, 0, len(resp))
	for i := range resp {
		if resp[i].ID == "" {
			logrus.WithField("account_id", accountID).Warn("campaigns: campaign without id, skipping")
			continue
		}
		campaigns = append(campaigns, FactoryCampaign(accountID, &resp[i]))
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"campaigns":  len(campaigns),
	}).Debug("campaigns: successfully retrieved campaigns")

	return campaigns, nil
}

func (s *MetaIntegrator) GetCampaignInsights(ctx context.Context, accessToken, accountID string) ([]*domain.Insight, error) {
	resp, err := s.Client.ListCampaignInsights(ctx, accessToken, accountID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("insights: failed to get campaign insights from API")
		return nil, err
	}

	insights := make([]*domain.Insight, 0, len(resp))
	for i := range resp {
		insight := FactoryCampaignInsight(&resp[i], s.purchaseTypes)
		if insight == nil {
			continue
		}
		insights = append(insights, insight)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"rows":       len(insights),
	}).Debug("insights: successfully retrieved campaign insights")

	return insights, nil
}

// FactoryCampaign converte a campanha da API; orçamentos chegam em centavos
func FactoryCampaign(accountID string, campaign *metadomain.Campaign) *domain.Campaign {
	return &domain.Campaign{
		ID:             campaign.ID,
		AccountID:      domain.NormalizeAccountID(accountID),
		Name:           campaign.Name,
		Objective:      campaign.Objective,
		Status:         campaign.Status,
		DailyBudget:    budgetFromMinorUnits(campaign.DailyBudget),
		LifetimeBudget: budgetFromMinorUnits(campaign.LifetimeBudget),
	}
}

// FactoryCampaignInsight normaliza uma linha diária de insight.
// Devolve nil quando a linha não tem chave (campanha ou data).
func FactoryCampaignInsight(row *metadomain.CampaignInsight, purchaseTypes metadomain.ActionPreference) *domain.Insight {
	if row.CampaignID == "" {
		logrus.Warn("insights: row without campaign_id, skipping")
		return nil
	}

	date, err := time.Parse(time.DateOnly, row.DateStart)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"campaign_id": row.CampaignID,
			"date_start":  row.DateStart,
			"error":       err.Error(),
		}).Warn("insights: invalid date_start, skipping")
		return nil
	}

	spend := parseFloatField("spend", row.Spend)
	revenue := purchaseTypes.FloatValue(row.ActionValues)

	return &domain.Insight{
		EntityID:    row.CampaignID,
		EntityType:  domain.EntityTypeCampaign,
		Date:        date,
		Spend:       spend,
		Impressions: parseIntField("impressions", row.Impressions),
		Clicks:      parseIntField("clicks", row.Clicks),
		Revenue:     revenue,
		Conversions: purchaseTypes.IntValue(row.Actions),
		ROAS:        CalculateROAS(revenue, spend),
	}
}

// CalculateROAS é revenue/spend, e exatamente 0 quando spend é 0
func CalculateROAS(revenue, spend float64) float64 {
	if spend <= 0 {
		return 0
	}

	roas := revenue / spend
	if math.IsNaN(roas) || math.IsInf(roas, 0) {
		return 0
	}
	return roas
}

func budgetFromMinorUnits(raw string) *float64 {
	if raw == "" {
		return nil
	}

	cents, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(cents) || math.IsInf(cents, 0) {
		logrus.WithFields(logrus.Fields{
			"budget_value": raw,
		}).Warn("campaigns: error converting budget, storing null")
		return nil
	}

	budget := cents / 100
	return &budget
}

func parseFloatField(field, raw string) float64 {
	value, ok := metadomain.TryParseFloat(raw)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"field": field,
			"value": raw,
		}).Warn("insights: error converting value to float")
	}
	return value
}

func parseIntField(field, raw string) int64 {
	value, ok := metadomain.TryParseInt(raw)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"field": field,
			"value": raw,
		}).Warn("insights: error converting value to integer")
	}
	return value
}
