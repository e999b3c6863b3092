package syncing

import (
	"context"

	"github.com/leverads/meta-sync-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/syncing.go -package=mocks

// Syncer executa uma rodada de sincronização sobre as credenciais informadas
type Syncer interface {
	Sync(ctx context.Context, req domain.SyncRequest, credentials []domain.Credential) (*domain.SyncReport, error)
}

// EventPublisher publica o relatório ao final de cada rodada
type EventPublisher interface {
	PublishSyncCompleted(ctx context.Context, report *domain.SyncReport) error
}

// CredentialLoader carrega as conexões elegíveis
type CredentialLoader interface {
	ListConnected(ctx context.Context) ([]domain.Credential, error)
}

// NoopPublisher descarta os eventos
type NoopPublisher struct{}

func (NoopPublisher) PublishSyncCompleted(context.Context, *domain.SyncReport) error {
	return nil
}
