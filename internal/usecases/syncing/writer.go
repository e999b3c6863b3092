package syncing

import (
	"context"
	"time"

	"github.com/leverads/meta-sync-api/infrastructure/repository"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/leverads/meta-sync-api/pkg/log"
)

// WriteStats separa linhas tentadas de linhas gravadas
type WriteStats struct {
	Attempted int
	Written   int
	Failed    int
}

func (s WriteStats) add(o WriteStats) WriteStats {
	return WriteStats{
		Attempted: s.Attempted + o.Attempted,
		Written:   s.Written + o.Written,
		Failed:    s.Failed + o.Failed,
	}
}

// Writer grava campanhas e insights linha a linha. Uma falha de gravação
// é registrada e a linha é ignorada, sem interromper o lote.
type Writer struct {
	campaignRepo repository.CampaignRepository
	insightRepo  repository.InsightRepository
	now          func() time.Time
}

func NewWriter(campaignRepo repository.CampaignRepository, insightRepo repository.InsightRepository) *Writer {
	return &Writer{
		campaignRepo: campaignRepo,
		insightRepo:  insightRepo,
		now:          time.Now,
	}
}

// WriteCampaigns atualiza last_updated_at de todas as campanhas antes de gravar
func (w *Writer) WriteCampaigns(ctx context.Context, campaigns []*domain.Campaign) WriteStats {
	stats := WriteStats{}
	now := w.now().UTC()

	for _, campaign := range campaigns {
		if campaign == nil {
			continue
		}

		stats.Attempted++
		campaign.LastUpdatedAt = now

		if err := w.campaignRepo.Upsert(ctx, campaign); err != nil {
			stats.Failed++
			log.ForContext(ctx).WithFields(log.Fields{
				"campaign_id": campaign.ID,
				"account_id":  campaign.AccountID,
				"error":       err.Error(),
			}).Error("campaigns: failed to upsert campaign")
			continue
		}

		stats.Written++
	}

	return stats
}

func (w *Writer) WriteInsights(ctx context.Context, insights []*domain.Insight) WriteStats {
	stats := WriteStats{}

	for _, insight := range insights {
		if insight == nil {
			continue
		}

		stats.Attempted++

		if err := w.insightRepo.Upsert(ctx, insight); err != nil {
			stats.Failed++
			log.ForContext(ctx).WithFields(log.Fields{
				"entity_id":   insight.EntityID,
				"entity_type": insight.EntityType,
				"date":        insight.Date.Format(time.DateOnly),
				"error":       err.Error(),
			}).Error("insights: failed to upsert insight")
			continue
		}

		stats.Written++
	}

	return stats
}
