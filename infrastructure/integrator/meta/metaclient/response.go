package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	metadomain "github.com/leverads/meta-sync-api/infrastructure/integrator/meta/domain"
	"github.com/sirupsen/logrus"
)

// get executa um GET com timeout próprio e devolve o corpo da resposta
func (c *MetaClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("erro aguardando limite de requisições: %w", err)
		}
	}

	if c.Cfg.Meta.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Cfg.Meta.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		err = redactURLError(err)
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		err = redactURLError(err)
		logrus.WithError(err).WithField("url", redactToken(rawURL)).Error("Erro ao fazer a requisição")
		return nil, err
	}
	defer resp.Body.Close()

	return HandleResponse(resp)
}

// HandleResponse devolve o corpo em caso de sucesso ou um *GraphError
func HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	errorResp, parseErr := ParseErrorResponse(body)
	if parseErr != nil {
		errorResp = nil
	}

	graphErr := metadomain.NewGraphError(resp.StatusCode, errorResp, body)

	logrus.WithFields(logrus.Fields{
		"status":       resp.StatusCode,
		"code":         graphErr.Details.Code,
		"subcode":      graphErr.Details.ErrorSubcode,
		"fbtrace_id":   graphErr.Details.FBTraceID,
		"rate_limited": graphErr.IsRateLimited(),
	}).Warn("meta: api returned error envelope")

	return nil, graphErr
}

// ParseErrorResponse tenta parsear um erro da API do Meta
func ParseErrorResponse(body []byte) (*metadomain.ErrorResponse, error) {
	var errorResp metadomain.ErrorResponse
	err := json.Unmarshal(body, &errorResp)
	if err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// redactURLError remove o access_token da URL embutida em erros de transporte
func redactURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactToken(urlErr.URL)
	}
	return err
}

func redactToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	q := u.Query()
	if q.Has("access_token") {
		q.Set("access_token", "***")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
