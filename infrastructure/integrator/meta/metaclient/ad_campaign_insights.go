package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
)

const campaignInsightFields = "campaign_id,spend,impressions,clicks,actions,action_values,purchase_roas,date_start,date_stop"

// ListCampaignInsights busca os insights diários por campanha da janela configurada
func (c *MetaClient) ListCampaignInsights(ctx context.Context, accessToken, accountID string) ([]metadomain.CampaignInsight, error) {
	baseURL := fmt.Sprintf("%s/%s/insights", c.Cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", campaignInsightFields)
	params.Add("time_increment", "1")
	params.Add("date_preset", c.Cfg.Meta.InsightsDatePreset)
	params.Add("access_token", accessToken)
	params.Add("limit", strconv.Itoa(c.Cfg.Meta.InsightsPageSize))

	return fetchAllPages[metadomain.CampaignInsight](ctx, c, baseURL+"?"+params.Encode(), "insights")
}
