package migration

// migrations é a lista ordenada de migrações. Cada item roda em uma única
// transação e a versão é o índice (base 1) na lista.
var migrations = [][]string{
	// 1: conexões, campanhas e insights diários
	{
		`CREATE TABLE IF NOT EXISTS ad_platform_connections (
			id TEXT PRIMARY KEY,
			access_token TEXT,
			display_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'disconnected',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			objective TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			daily_budget NUMERIC(14, 2),
			lifetime_budget NUMERIC(14, 2),
			last_updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_account_id ON campaigns(account_id)`,

		`CREATE TABLE IF NOT EXISTS insights (
			entity_id TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			date DATE NOT NULL,
			spend DOUBLE PRECISION NOT NULL DEFAULT 0,
			impressions BIGINT NOT NULL DEFAULT 0,
			clicks BIGINT NOT NULL DEFAULT 0,
			revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
			conversions BIGINT NOT NULL DEFAULT 0,
			roas DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (entity_id, entity_type, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_date ON insights(date)`,
	},
}
