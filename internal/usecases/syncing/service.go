package syncing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leverads/meta-sync-api/infrastructure/integrator/meta"
	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/leverads/meta-sync-api/pkg/apiErrors"
	"github.com/leverads/meta-sync-api/pkg/log"
	"github.com/leverads/meta-sync-api/pkg/utils"
)

// target é uma conta a sincronizar com a credencial que a alcança
type target struct {
	accountID  string
	credential domain.Credential
}

type Service struct {
	integrator meta.Integrator
	writer     *Writer
	publisher  EventPublisher

	maxConcurrent          int
	maxConsecutiveFailures int

	now func() time.Time
}

func NewService(cfg *config.Config, integrator meta.Integrator, writer *Writer, publisher EventPublisher) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}

	maxConcurrent := cfg.Sync.MaxConcurrentAccounts
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Service{
		integrator:             integrator,
		writer:                 writer,
		publisher:              publisher,
		maxConcurrent:          maxConcurrent,
		maxConsecutiveFailures: cfg.Sync.MaxConsecutiveFailures,
		now:                    time.Now,
	}
}

// Sync executa uma rodada completa. Falhas de uma conta ficam no resultado
// dela; o erro retornado é reservado para falhas fora desse isolamento.
func (s *Service) Sync(ctx context.Context, req domain.SyncRequest, credentials []domain.Credential) (*domain.SyncReport, error) {
	runID, err := utils.GenerateID()
	if err != nil {
		return nil, NewSyncError(ErrGenerateRunID, apiErrors.ErrInternalServer, err.Error())
	}

	ctx = log.WithRunID(ctx, runID)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"force":      req.Force,
		"account_id": req.AccountID,
	})

	report := &domain.SyncReport{
		RunID:   runID,
		Force:   req.Force,
		Results: []domain.SyncResult{},
	}

	eligible := domain.EligibleCredentials(credentials)
	if len(eligible) == 0 {
		logger.Info("Nenhuma conexão ativa com a Meta encontrada")
		report.Message = NoConnectionsMessage
		report.SyncedAt = s.now().UTC()
		return report, nil
	}

	targets, err := s.resolveTargets(ctx, req, eligible)
	if err != nil {
		logger.WithError(err).Error("Erro ao resolver contas para sincronização")
		return nil, err
	}

	logger.WithFields(log.Fields{
		"credentials":    len(eligible),
		"accounts":       len(targets),
		"max_concurrent": s.maxConcurrent,
	}).Info("Iniciando sincronização de contas da Meta")

	report.Results = s.runTargets(ctx, targets)
	report.SyncedAt = s.now().UTC()

	counts := report.CountByStatus()
	logger.WithFields(log.Fields{
		"synced":  counts[domain.SyncStatusSynced],
		"partial": counts[domain.SyncStatusPartial],
		"error":   counts[domain.SyncStatusError],
	}).Info("Sincronização de contas da Meta concluída")

	if err := s.publisher.PublishSyncCompleted(ctx, report); err != nil {
		logger.WithError(err).Warn("Erro ao publicar evento de sincronização concluída")
	}

	return report, nil
}

// resolveTargets monta a lista de contas na ordem em que foram resolvidas.
// Uma conta alcançável por mais de uma credencial fica com a primeira.
func (s *Service) resolveTargets(ctx context.Context, req domain.SyncRequest, credentials []domain.Credential) ([]target, error) {
	if accountID := domain.NormalizeAccountID(req.AccountID); accountID != "" {
		return []target{{accountID: accountID, credential: credentials[0]}}, nil
	}

	targets := make([]target, 0)
	seen := make(map[string]struct{})

	for _, credential := range credentials {
		accounts, err := s.integrator.GetAdAccounts(ctx, credential.Token())
		if err != nil {
			return nil, NewSyncError(ErrListAccounts, apiErrors.ErrExternalService, err.Error())
		}

		for _, account := range accounts {
			if !account.IsActive() {
				continue
			}

			accountID := domain.NormalizeAccountID(account.ID)
			if accountID == "" {
				continue
			}
			if _, ok := seen[accountID]; ok {
				continue
			}

			seen[accountID] = struct{}{}
			targets = append(targets, target{accountID: accountID, credential: credential})
		}
	}

	return targets, nil
}

// runTargets processa as contas pelo pool e mantém a ordem de resolução
func (s *Service) runTargets(ctx context.Context, targets []target) []domain.SyncResult {
	results := make([]domain.SyncResult, len(targets))
	guard := newRunGuard(s.maxConsecutiveFailures)

	runPool(ctx, len(targets), s.maxConcurrent, func(ctx context.Context, i int) {
		t := targets[i]

		if reason := guard.skipReason(t.credential.ConnectionID); reason != nil {
			results[i] = domain.SyncResult{
				Account: t.accountID,
				Status:  domain.SyncStatusError,
				Error:   reason.Error(),
			}
			log.ForContext(ctx).WithFields(log.Fields{
				"account_id": t.accountID,
				"reason":     reason.Error(),
			}).Warn("Conta ignorada nesta rodada")
			return
		}

		result, cause := s.syncAccount(ctx, t)
		guard.record(t.credential.ConnectionID, result.Status, cause)
		results[i] = result
	})

	return results
}

// syncAccount executa o pipeline de uma conta: campanhas, depois insights
func (s *Service) syncAccount(ctx context.Context, t target) (result domain.SyncResult, cause error) {
	logger := log.ForContext(ctx).WithField("account_id", t.accountID)
	result = domain.SyncResult{Account: t.accountID}

	defer func() {
		if r := recover(); r != nil {
			cause = NewSyncErrorWithAccount(ErrAccountPanicked, apiErrors.ErrInternalServer, t.accountID, fmt.Sprint(r))
			logger.WithField("panic", r).Error("Falha inesperada ao sincronizar conta")
			result = domain.SyncResult{
				Account: t.accountID,
				Status:  domain.SyncStatusError,
				Error:   cause.Error(),
			}
		}
	}()

	token := t.credential.Token()

	campaigns, err := s.integrator.GetCampaigns(ctx, token, t.accountID)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar campanhas da conta")
		result.Status = domain.SyncStatusError
		result.Error = err.Error()
		return result, err
	}

	campaignStats := s.writer.WriteCampaigns(ctx, campaigns)
	campaignsCount := campaignStats.Written
	result.CampaignsCount = &campaignsCount

	insights, err := s.integrator.GetCampaignInsights(ctx, token, t.accountID)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar insights da conta")
		result.Status = domain.SyncStatusPartial
		result.Error = err.Error()
		return result, err
	}

	insightStats := s.writer.WriteInsights(ctx, insights)
	insightsCount := insightStats.Written
	result.InsightsCount = &insightsCount

	total := campaignStats.add(insightStats)
	if total.Failed > 0 {
		writeErr := NewSyncErrorWithAccount(ErrWriteRows, apiErrors.ErrDatabaseOperation, t.accountID,
			fmt.Sprintf("%d of %d rows failed", total.Failed, total.Attempted))
		result.Status = domain.SyncStatusPartial
		result.Error = writeErr.Error()
		logger.WithFields(log.Fields{
			"attempted": total.Attempted,
			"failed":    total.Failed,
		}).Warn("Conta sincronizada parcialmente")
		return result, writeErr
	}

	result.Status = domain.SyncStatusSynced
	logger.WithFields(log.Fields{
		"campaigns": campaignsCount,
		"insights":  insightsCount,
	}).Info("Conta sincronizada com sucesso")

	return result, nil
}

func isTokenExpired(err error) bool {
	var graphErr *metadomain.GraphError
	return errors.As(err, &graphErr) && graphErr.IsTokenExpired()
}
