package metaclient

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
	"github.com/leverads/meta-sync-api/internal/config"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source=client.go -destination=../mocks/client.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	ListAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error)
	ListCampaigns(ctx context.Context, accessToken, accountID string) ([]metadomain.Campaign, error)
	ListCampaignInsights(ctx context.Context, accessToken, accountID string) ([]metadomain.CampaignInsight, error)
}

type MetaClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*MetaClient)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *MetaClient) {
		c.HTTPClient = httpClient
	}
}

// WithLimiter compartilha o mesmo token bucket entre clientes
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *MetaClient) {
		c.limiter = limiter
	}
}

func NewClient(cfg *config.Config, opts ...Option) *MetaClient {
	client := &MetaClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{},
	}

	if cfg.Meta.RequestsPerSecond > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(cfg.Meta.RequestsPerSecond), cfg.Meta.RequestsBurst)
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}
