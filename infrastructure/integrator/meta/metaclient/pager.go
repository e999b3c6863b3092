package metaclient

import (
	"context"
	"fmt"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
	"github.com/sirupsen/logrus"
)

// fetchAllPages segue paging.next até acabar ou até o limite de páginas.
// Atingir o limite não é erro: o que já foi lido é devolvido.
func fetchAllPages[T any](ctx context.Context, c *MetaClient, firstURL string, resource string) ([]T, error) {
	items := make([]T, 0)
	nextURL := firstURL

	for page := 1; nextURL != ""; page++ {
		if page > c.Cfg.Meta.MaxPages {
			logrus.WithFields(logrus.Fields{
				"resource":  resource,
				"max_pages": c.Cfg.Meta.MaxPages,
				"items":     len(items),
			}).Warn("meta: max pages reached, stopping pagination")
			break
		}

		body, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var response metadomain.Page[T]
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).WithField("resource", resource).Error("Erro ao decodificar JSON")
			return nil, fmt.Errorf("erro ao decodificar página %d de %s: %w", page, resource, err)
		}

		items = append(items, response.Data...)

		if len(response.Data) == 0 {
			break
		}
		nextURL = response.Paging.Next
	}

	return items, nil
}
