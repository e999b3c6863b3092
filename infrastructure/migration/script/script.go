package main

import (
	"context"
	"time"

	"github.com/leverads/meta-sync-api/infrastructure/database/postgres"
	"github.com/leverads/meta-sync-api/infrastructure/migration"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/sirupsen/logrus"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()
	version, err := migration.Apply(ctx, conn.DB)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	logrus.WithFields(logrus.Fields{
		"version":  version,
		"latest":   migration.Latest(),
		"duration": time.Since(startTime).String(),
	}).Info("Migrações concluídas")
}
