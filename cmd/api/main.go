package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/leverads/meta-sync-api/infrastructure/database/postgres"
	"github.com/leverads/meta-sync-api/infrastructure/integrator/meta"
	"github.com/leverads/meta-sync-api/infrastructure/integrator/meta/metaclient"
	"github.com/leverads/meta-sync-api/infrastructure/messaging/rabbitmq"
	"github.com/leverads/meta-sync-api/infrastructure/repository"
	"github.com/leverads/meta-sync-api/internal/api"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/leverads/meta-sync-api/internal/scheduler"
	"github.com/leverads/meta-sync-api/internal/usecases/syncing"
	"github.com/sirupsen/logrus"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	campaignRepo := repository.NewCampaignRepository(pgConn)
	insightRepo := repository.NewInsightRepository(pgConn)
	credentialRepo := repository.NewCredentialRepository(pgConn)

	purchaseTypes, err := meta.LoadPurchaseActionTypes(cfg.Meta.ActionTypesFile)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar tipos de ação de compra")
	}

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient, purchaseTypes)

	publisher, closePublisher := eventPublisher(cfg.RabbitMQ)
	defer closePublisher()

	writer := syncing.NewWriter(campaignRepo, insightRepo)
	syncService := syncing.NewService(cfg, metaIntegrator, writer, publisher)

	metaSyncService := scheduler.NewMetaSyncService(credentialRepo, syncService, cfg)

	// Inicia o agendador em background
	if err := metaSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização da Meta")
	} else {
		logrus.Info("Agendador de sincronização da Meta iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Dependencies{
		DB:              pgConn,
		Credentials:     credentialRepo,
		Syncer:          syncService,
		MetaSyncService: metaSyncService,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// eventPublisher conecta ao RabbitMQ; sem URL ou com falha de conexão os eventos são descartados
func eventPublisher(cfg config.RabbitMQ) (syncing.EventPublisher, func()) {
	if cfg.URL == "" {
		logrus.Info("RabbitMQ não configurado, eventos de sincronização desabilitados")
		return syncing.NoopPublisher{}, func() {}
	}

	publisher, err := rabbitmq.NewPublisher(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao conectar ao RabbitMQ, eventos de sincronização desabilitados")
		return syncing.NoopPublisher{}, func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com RabbitMQ")
		}
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) postgres.Conn {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
