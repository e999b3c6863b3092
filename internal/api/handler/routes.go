package handler

import (
	"net/http"

	"github.com/leverads/meta-sync-api/internal/api/handler/router"
	"github.com/leverads/meta-sync-api/internal/usecases/syncing"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

// Sync expõe a sincronização em /v1/sync e na raiz, mantendo o contrato da função de borda
func Sync(credentials syncing.CredentialLoader, syncer syncing.Syncer) []router.Route {
	handler := SyncMetrics(credentials, syncer)

	return []router.Route{
		{
			Path:    "/v1/sync",
			Method:  http.MethodPost,
			Handler: handler,
		},
		{
			Path:    "/",
			Method:  http.MethodPost,
			Handler: handler,
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
