package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/leverads/meta-sync-api/internal/usecases/syncing"
	"github.com/leverads/meta-sync-api/pkg/apiErrors"
	"github.com/leverads/meta-sync-api/pkg/log"
	"github.com/sirupsen/logrus"
)

// MetaSyncConfig representa a configuração do agendador de sincronização da Meta
type MetaSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
	RunTimeout   time.Duration
}

// MetaSyncService agenda e executa a sincronização de todas as contas conectadas
type MetaSyncService struct {
	scheduler   *gocron.Scheduler
	config      MetaSyncConfig
	credentials syncing.CredentialLoader
	syncer      syncing.Syncer

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastSyncCounts      map[domain.SyncStatus]int
	lastSyncError       string
}

func NewMetaSyncService(
	credentials syncing.CredentialLoader,
	syncer syncing.Syncer,
	appConfig *config.Config,
) *MetaSyncService {
	syncConfig := MetaSyncConfig{
		CronSchedule: appConfig.MetaSync.CronSchedule,
		SyncEnabled:  appConfig.MetaSync.Enabled,
		RunTimeout:   appConfig.MetaSync.RunTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
		"run_timeout":   syncConfig.RunTimeout.String(),
	}).Info("Configuração do agendador de sincronização da Meta carregada")

	return &MetaSyncService{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      syncConfig,
		credentials: credentials,
		syncer:      syncer,
	}
}

// Start inicia o agendador
func (s *MetaSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização da Meta desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização da Meta")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização da Meta: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização da Meta")
		s.scheduler.Stop()
	}()

	return nil
}

// tryAcquire marca a rodada como em andamento; false se já houver uma
func (s *MetaSyncService) tryAcquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *MetaSyncService) release(report *domain.SyncReport, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	if report != nil {
		s.lastRunID = report.RunID
		s.lastSyncCounts = report.CountByStatus()
	}
}

// syncAll carrega as conexões e sincroniza todas as contas alcançáveis
func (s *MetaSyncService) syncAll(parent context.Context) {
	if !s.tryAcquire() {
		logrus.Info("Sincronização da Meta já em andamento, ignorando")
		return
	}

	s.runAcquired(parent)
}

// runAcquired executa a rodada; quem chama já detém a marca de execução
func (s *MetaSyncService) runAcquired(parent context.Context) {
	ctx, correlationID := log.WithCorrelationID(context.WithoutCancel(parent))
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	logger := log.ForContext(ctx)
	startTime := time.Now()
	logger.Info("Iniciando sincronização agendada da Meta")

	report, err := s.run(ctx)
	s.release(report, err)

	if err != nil {
		logger.WithError(err).Error("Erro na sincronização agendada da Meta")
		return
	}

	logger.WithFields(log.Fields{
		"duration":       time.Since(startTime).String(),
		"run_id":         report.RunID,
		"results":        len(report.Results),
		"correlation_id": correlationID,
	}).Info("Sincronização agendada da Meta concluída")
}

func (s *MetaSyncService) run(ctx context.Context) (*domain.SyncReport, error) {
	credentials, err := s.credentials.ListConnected(ctx)
	if err != nil {
		return nil, syncing.NewSyncError(syncing.ErrLoadCredentials, apiErrors.ErrDatabaseOperation, err.Error())
	}

	return s.syncer.Sync(ctx, domain.SyncRequest{}, credentials)
}

// TriggerManualSync inicia manualmente uma sincronização; false se já houver uma em andamento
func (s *MetaSyncService) TriggerManualSync() bool {
	if !s.tryAcquire() {
		logrus.Info("Sincronização da Meta já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual da Meta")
	go s.runAcquired(context.Background())
	return true
}

// GetStatus retorna o status atual do agendador
func (s *MetaSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_run_id":            s.lastRunID,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_results":      s.lastSyncCounts,
		"last_sync_error":        s.lastSyncError,
	}
}
