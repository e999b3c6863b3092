package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leverads/meta-sync-api/internal/api/handler"
	"github.com/leverads/meta-sync-api/internal/config"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/leverads/meta-sync-api/internal/usecases/syncing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestHandler(t *testing.T, secret string) (http.Handler, *mocks.MockCredentialLoader, *mocks.MockSyncer) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	loader := mocks.NewMockCredentialLoader(ctrl)
	syncer := mocks.NewMockSyncer(ctrl)

	cfg := &config.Config{
		Auth: config.Auth{Secret: secret},
		Cors: config.Cors{AllowedOrigins: []string{"*"}},
	}

	deps := Dependencies{Credentials: loader, Syncer: syncer}
	return NewHandler(cfg, deps, handler.CronJobServices{}), loader, syncer
}

func TestServer_Preflight(t *testing.T) {
	h, _, _ := newTestHandler(t, "")

	for _, path := range []string{"/", "/v1/sync"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://app.leverads.com")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "authorization, x-client-info, apikey, content-type", rec.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestServer_SyncNaRaiz(t *testing.T) {
	h, loader, syncer := newTestHandler(t, "")

	loader.EXPECT().ListConnected(gomock.Any()).Return(nil, nil)
	syncer.EXPECT().
		Sync(gomock.Any(), domain.SyncRequest{}, gomock.Any()).
		Return(&domain.SyncReport{Message: "No active Meta connections found"}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"message":"No active Meta connections found"}`, rec.Body.String())
}

func TestServer_SyncComAutenticacao(t *testing.T) {
	secret := "segredo-de-teste"

	signed := func(t *testing.T, key string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		})
		s, err := token.SignedString([]byte(key))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name           string
		authorization  func(t *testing.T) string
		expectSync     bool
		expectedStatus int
	}{
		{
			name:           "Sem cabeçalho",
			authorization:  func(t *testing.T) string { return "" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Assinatura inválida",
			authorization:  func(t *testing.T) string { return "Bearer " + signed(t, "outra-chave", time.Now().Add(time.Hour)) },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Token expirado",
			authorization:  func(t *testing.T) string { return "Bearer " + signed(t, secret, time.Now().Add(-time.Hour)) },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Token válido",
			authorization:  func(t *testing.T) string { return "Bearer " + signed(t, secret, time.Now().Add(time.Hour)) },
			expectSync:     true,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, loader, syncer := newTestHandler(t, secret)
			if tt.expectSync {
				loader.EXPECT().ListConnected(gomock.Any()).Return(nil, nil)
				syncer.EXPECT().
					Sync(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&domain.SyncReport{Results: []domain.SyncResult{}, SyncedAt: time.Now()}, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/sync", nil)
			if auth := tt.authorization(t); auth != "" {
				req.Header.Set("Authorization", auth)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestServer_HealthcheckSemAutenticacao(t *testing.T) {
	h, _, _ := newTestHandler(t, "segredo-de-teste")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RotasDesconhecidas(t *testing.T) {
	h, _, _ := newTestHandler(t, "")

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Rota inexistente",
			method:         http.MethodGet,
			path:           "/v1/campaigns",
			expectedStatus: http.StatusNotFound,
			expectedCode:   "VAL_004",
		},
		{
			name:           "Método não suportado",
			method:         http.MethodGet,
			path:           "/v1/sync",
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   "VAL_005",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.expectedCode)
		})
	}
}
