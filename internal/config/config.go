package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Meta     Meta     `mapstructure:",squash"`
	Sync     Sync     `mapstructure:",squash"`
	MetaSync MetaSync `mapstructure:",squash"`
	RabbitMQ RabbitMQ `mapstructure:",squash"`
	Auth     Auth     `mapstructure:",squash"`
	Cors     Cors     `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type Meta struct {
	BaseURL            string        `mapstructure:"meta_base_url"`
	URL                string        `mapstructure:"-"`
	Version            string        `mapstructure:"meta_version"`
	RequestTimeout     time.Duration `mapstructure:"meta_request_timeout"`
	AccountsPageSize   int           `mapstructure:"meta_accounts_page_size"`
	CampaignsPageSize  int           `mapstructure:"meta_campaigns_page_size"`
	InsightsPageSize   int           `mapstructure:"meta_insights_page_size"`
	MaxPages           int           `mapstructure:"meta_max_pages"`
	InsightsDatePreset string        `mapstructure:"meta_insights_date_preset"`
	RequestsPerSecond  float64       `mapstructure:"meta_requests_per_second"`
	RequestsBurst      int           `mapstructure:"meta_requests_burst"`
	ActionTypesFile    string        `mapstructure:"meta_action_types_file"`
}

type Sync struct {
	MaxConcurrentAccounts  int `mapstructure:"sync_max_concurrent_accounts"`
	MaxConsecutiveFailures int `mapstructure:"sync_max_consecutive_failures"`
}

type MetaSync struct {
	CronSchedule string        `mapstructure:"meta_sync_cron"`
	Enabled      bool          `mapstructure:"meta_sync_enabled"`
	RunTimeout   time.Duration `mapstructure:"meta_sync_run_timeout"`
}

type RabbitMQ struct {
	URL        string `mapstructure:"rabbitmq_url"`
	Exchange   string `mapstructure:"rabbitmq_exchange"`
	RoutingKey string `mapstructure:"rabbitmq_routing_key"`
	QueueName  string `mapstructure:"rabbitmq_queue"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/leverads?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("META_ACCOUNTS_PAGE_SIZE", 50)
	viper.SetDefault("META_CAMPAIGNS_PAGE_SIZE", 100)
	viper.SetDefault("META_INSIGHTS_PAGE_SIZE", 500)
	viper.SetDefault("META_MAX_PAGES", 50)                    // Limite de páginas por listagem
	viper.SetDefault("META_INSIGHTS_DATE_PRESET", "last_30d") // Janela móvel de 30 dias
	viper.SetDefault("META_REQUESTS_PER_SECOND", 0)           // 0 desabilita o limitador
	viper.SetDefault("META_REQUESTS_BURST", 1)
	viper.SetDefault("META_ACTION_TYPES_FILE", "")

	viper.SetDefault("SYNC_MAX_CONCURRENT_ACCOUNTS", 1)  // 1 = contas processadas em sequência
	viper.SetDefault("SYNC_MAX_CONSECUTIVE_FAILURES", 0) // 0 desabilita o circuit breaker

	viper.SetDefault("META_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("META_SYNC_ENABLED", false)
	viper.SetDefault("META_SYNC_RUN_TIMEOUT", "30m")

	viper.SetDefault("RABBITMQ_URL", "") // vazio desabilita a publicação de eventos
	viper.SetDefault("RABBITMQ_EXCHANGE", "leverads.sync")
	viper.SetDefault("RABBITMQ_ROUTING_KEY", "sync.completed")
	viper.SetDefault("RABBITMQ_QUEUE", "leverads.sync.completed")

	viper.SetDefault("AUTH_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	return config, nil
}

// normalize preenche os campos derivados e corrige valores fora do intervalo
func (c *Config) normalize() {
	c.Meta.URL = fmt.Sprintf("%s/%s", c.Meta.BaseURL, c.Meta.Version)

	if c.Meta.MaxPages < 1 {
		c.Meta.MaxPages = 1
	}
	if c.Meta.RequestsBurst < 1 {
		c.Meta.RequestsBurst = 1
	}
	if c.Sync.MaxConcurrentAccounts < 1 {
		c.Sync.MaxConcurrentAccounts = 1
	}
	if len(c.Cors.AllowedOrigins) == 0 {
		c.Cors.AllowedOrigins = []string{"*"}
	}

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
