package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
)

const campaignStatusFilter = `[{"field":"effective_status","operator":"IN","value":["ACTIVE","PAUSED"]}]`

// ListCampaigns lista as campanhas ativas ou pausadas da conta
func (c *MetaClient) ListCampaigns(ctx context.Context, accessToken, accountID string) ([]metadomain.Campaign, error) {
	baseURL := fmt.Sprintf("%s/%s/campaigns", c.Cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Add("fields", "id,name,objective,status,daily_budget,lifetime_budget")
	params.Add("filtering", campaignStatusFilter)
	params.Add("access_token", accessToken)
	params.Add("limit", strconv.Itoa(c.Cfg.Meta.CampaignsPageSize))

	return fetchAllPages[metadomain.Campaign](ctx, c, baseURL+"?"+params.Encode(), "campaigns")
}
