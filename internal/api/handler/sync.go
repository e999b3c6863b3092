package handler

import (
	"bytes"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/leverads/meta-sync-api/internal/domain"
	"github.com/leverads/meta-sync-api/internal/usecases/syncing"
	"github.com/leverads/meta-sync-api/pkg/apiErrors"
	"github.com/leverads/meta-sync-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxSyncBodyBytes = 1 << 20

// SyncResponse é o corpo de sucesso de uma rodada com conexões ativas
type SyncResponse struct {
	Success  bool                `json:"success"`
	Results  []domain.SyncResult `json:"results"`
	SyncedAt string              `json:"synced_at"`
}

// MessageResponse é devolvido quando não há nada a sincronizar
type MessageResponse struct {
	Message string `json:"message"`
}

// SyncMetrics executa a sincronização de forma síncrona e responde com o relatório
func SyncMetrics(credentials syncing.CredentialLoader, syncer syncing.Syncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.ForContext(ctx)
		logger.Info("INIT - SyncMetrics")

		req, err := decodeSyncRequest(r)
		if err != nil {
			logger.WithError(err).Warn("Corpo da requisição de sincronização inválido")
			apiErrors.WriteSyncError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logger.WithFields(log.Fields{
			"account_id": req.AccountID,
			"force":      req.Force,
		}).Info("Requisição de sincronização recebida")

		connected, err := credentials.ListConnected(ctx)
		if err != nil {
			logger.WithError(err).Error("Erro ao carregar conexões")
			apiErrors.WriteSyncError(w, http.StatusInternalServerError, err.Error())
			return
		}

		report, err := syncer.Sync(ctx, req, connected)
		if err != nil {
			logger.WithError(err).Error("Erro ao sincronizar métricas")
			apiErrors.WriteSyncError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if !report.HasConnection() {
			json.NewEncoder(w).Encode(MessageResponse{Message: report.Message})
			return
		}

		json.NewEncoder(w).Encode(SyncResponse{
			Success:  true,
			Results:  report.Results,
			SyncedAt: report.SyncedAt.UTC().Format(time.RFC3339),
		})
	})
}

// decodeSyncRequest trata corpo vazio como {}
func decodeSyncRequest(r *http.Request) (domain.SyncRequest, error) {
	req := domain.SyncRequest{}
	if r.Body == nil {
		return req, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSyncBodyBytes))
	if err != nil {
		return req, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, err
	}

	return req, nil
}
