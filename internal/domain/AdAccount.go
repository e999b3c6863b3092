package domain

import "strings"

// AdAccountPrefix é o prefixo exigido pela Graph API para ids de conta de anúncio
const AdAccountPrefix = "act_"

// AdAccountStatusActive é o código numérico de conta ativa reportado pela Meta
const AdAccountStatusActive = 1

type AdAccount struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"account_status"`
}

func (a AdAccount) IsActive() bool {
	return a.Status == AdAccountStatusActive
}

// NormalizeAccountID garante o prefixo act_ sem duplicá-lo
func NormalizeAccountID(accountID string) string {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return ""
	}

	if strings.HasPrefix(accountID, AdAccountPrefix) {
		return accountID
	}

	return AdAccountPrefix + accountID
}
