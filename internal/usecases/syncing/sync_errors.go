package syncing

import (
	"errors"
	"fmt"
)

// NoConnectionsMessage é devolvida quando não há credencial conectada
const NoConnectionsMessage = "No active Meta connections found"

// Erros específicos da sincronização
var (
	ErrListAccounts    = errors.New("error listing ad accounts from Meta")
	ErrWriteRows       = errors.New("error writing rows")
	ErrTokenExpired    = errors.New("access token expired")
	ErrCircuitOpen     = errors.New("circuit open: too many consecutive account failures")
	ErrAccountPanicked = errors.New("unexpected failure while syncing account")
	ErrGenerateRunID   = errors.New("error generating run id")
	ErrLoadCredentials = errors.New("error loading connections")
)

// SyncError é um erro com contexto de conta
type SyncError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	AccountID string // Conta envolvida (quando aplicável)
	Details   string // Detalhes adicionais
}

func (e *SyncError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError cria um novo SyncError
func NewSyncError(err error, code string, details string) *SyncError {
	return &SyncError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewSyncErrorWithAccount cria um novo SyncError com a conta envolvida
func NewSyncErrorWithAccount(err error, code string, accountID string, details string) *SyncError {
	return &SyncError{
		Err:       err,
		Code:      code,
		AccountID: accountID,
		Details:   details,
	}
}
