package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
)

// ListAdAccounts lista todas as contas alcançáveis pelo token
func (c *MetaClient) ListAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error) {
	baseURL := fmt.Sprintf("%s/me/adaccounts", c.Cfg.Meta.URL)

	params := url.Values{}
	params.Add("fields", "id,name,account_status")
	params.Add("access_token", accessToken)
	params.Add("limit", strconv.Itoa(c.Cfg.Meta.AccountsPageSize))

	return fetchAllPages[metadomain.AdAccount](ctx, c, baseURL+"?"+params.Encode(), "adaccounts")
}
