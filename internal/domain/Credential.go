package domain

const CredentialStatusConnected = "connected"

// Credential é o registro de conexão com a plataforma de anúncios
type Credential struct {
	ConnectionID string  `json:"connection_id" db:"id"`
	AccessToken  *string `json:"-" db:"access_token"`
	DisplayName  string  `json:"display_name" db:"display_name"`
	Status       string  `json:"status" db:"status"`
}

// IsEligible indica se a credencial pode ser usada para sincronizar
func (c Credential) IsEligible() bool {
	return c.Status == CredentialStatusConnected && c.AccessToken != nil && *c.AccessToken != ""
}

func (c Credential) Token() string {
	if c.AccessToken == nil {
		return ""
	}
	return *c.AccessToken
}

// EligibleCredentials mantém a ordem original
func EligibleCredentials(credentials []Credential) []Credential {
	eligible := make([]Credential, 0, len(credentials))
	for _, c := range credentials {
		if c.IsEligible() {
			eligible = append(eligible, c)
		}
	}
	return eligible
}
