package metadomain

import (
	"fmt"
	"net/http"
)

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string      `json:"message"`
	Type         string      `json:"type"`
	Code         int         `json:"code"`
	ErrorSubcode int         `json:"error_subcode,omitempty"`
	FBTraceID    string      `json:"fbtrace_id"`
	ErrorData    interface{} `json:"error_data,omitempty"`
}

// GraphError é o erro tipado devolvido pelo cliente quando a API responde com erro
type GraphError struct {
	StatusCode int
	Details    ErrorDetails
	Body       string
}

func NewGraphError(statusCode int, resp *ErrorResponse, body []byte) *GraphError {
	graphErr := &GraphError{StatusCode: statusCode}
	if resp != nil && resp.Error.Message != "" {
		graphErr.Details = resp.Error
		return graphErr
	}

	graphErr.Body = string(body)
	return graphErr
}

func (e *GraphError) Error() string {
	if e.Details.Message != "" {
		return e.Details.Message
	}

	if e.Body != "" {
		return fmt.Sprintf("meta api error (status %d): %s", e.StatusCode, e.Body)
	}

	return fmt.Sprintf("meta api error (status %d): %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsTokenExpired verifica se o erro é de token expirado
func (e *GraphError) IsTokenExpired() bool {
	// O código 190 representa "token expirado" nas respostas da API do Meta
	// Possíveis subcódigos relacionados a problemas de token: 460, 463, 467
	return e.Details.Code == 190 ||
		(e.Details.Type == "OAuthException" && (e.Details.ErrorSubcode == 460 || e.Details.ErrorSubcode == 463 || e.Details.ErrorSubcode == 467))
}

// IsRateLimited cobre os códigos de throttling de app, usuário e conta
func (e *GraphError) IsRateLimited() bool {
	switch e.Details.Code {
	case 4, 17, 32, 613, 80000, 80004:
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests
}
