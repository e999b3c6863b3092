package domain

import "time"

type Campaign struct {
	ID             string    `json:"id" db:"id"`
	AccountID      string    `json:"account_id" db:"account_id"`
	Name           string    `json:"name" db:"name"`
	Objective      string    `json:"objective" db:"objective"`
	Status         string    `json:"status" db:"status"`
	DailyBudget    *float64  `json:"daily_budget" db:"daily_budget"`
	LifetimeBudget *float64  `json:"lifetime_budget" db:"lifetime_budget"`
	LastUpdatedAt  time.Time `json:"last_updated_at" db:"last_updated_at"`
}
