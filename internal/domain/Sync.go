package domain

import "time"

type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusError   SyncStatus = "error"
)

type SyncRequest struct {
	AccountID string `json:"accountId,omitempty"`
	Force     bool   `json:"force,omitempty"`
}

// SyncResult é o resultado de uma conta dentro de uma execução
type SyncResult struct {
	Account        string     `json:"account"`
	Status         SyncStatus `json:"status"`
	CampaignsCount *int       `json:"campaigns_count,omitempty"`
	InsightsCount  *int       `json:"insights_count,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// SyncReport agrega os resultados de uma execução.
// Message é preenchida apenas quando não há conexão ativa.
type SyncReport struct {
	RunID    string       `json:"run_id"`
	Force    bool         `json:"force"`
	Message  string       `json:"message,omitempty"`
	Results  []SyncResult `json:"results"`
	SyncedAt time.Time    `json:"synced_at"`
}

func (r *SyncReport) HasConnection() bool {
	return r.Message == ""
}

// CountByStatus conta os resultados por status
func (r *SyncReport) CountByStatus() map[SyncStatus]int {
	counts := map[SyncStatus]int{
		SyncStatusSynced:  0,
		SyncStatusPartial: 0,
		SyncStatusError:   0,
	}
	for _, result := range r.Results {
		counts[result.Status]++
	}
	return counts
}
