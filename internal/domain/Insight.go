package domain

import "time"

type EntityType string

const (
	EntityTypeCampaign EntityType = "CAMPAIGN"
	EntityTypeAdSet    EntityType = "ADSET"
	EntityTypeAd       EntityType = "AD"
)

// Insight é o fato diário de performance de uma entidade.
// A chave natural é (EntityID, EntityType, Date).
type Insight struct {
	EntityID    string     `json:"entity_id" db:"entity_id"`
	EntityType  EntityType `json:"entity_type" db:"entity_type"`
	Date        time.Time  `json:"date" db:"date"`
	Spend       float64    `json:"spend" db:"spend"`
	Impressions int64      `json:"impressions" db:"impressions"`
	Clicks      int64      `json:"clicks" db:"clicks"`
	Revenue     float64    `json:"revenue" db:"revenue"`
	Conversions int64      `json:"conversions" db:"conversions"`
	ROAS        float64    `json:"roas" db:"roas"`
}
