package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Provider *providerConfig
	Pipeline *pipelineConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"janavarta"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	OpsAddress      string `envconfig:"JANAVARTA_OPS_ADDRESS" default:":8090"`
	LogLevel        string `envconfig:"JANAVARTA_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"JANAVARTA_MIGRATIONS_FOLDER" default:""`
}

type providerConfig struct {
	BaseURL string        `envconfig:"JANAVARTA_AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/models"`
	APIKey  string        `envconfig:"JANAVARTA_AI_API_KEY" default:""`
	Model   string        `envconfig:"JANAVARTA_AI_MODEL" default:"gemini-2.0-flash"`
	Timeout time.Duration `envconfig:"JANAVARTA_AI_TIMEOUT" default:"90s"`
}

// pipelineConfig carries the product-tuned pipeline constants. The defaults
// match the values the product shipped with; none of them is hard-coded at
// a use site.
type pipelineConfig struct {
	Languages           []string      `envconfig:"JANAVARTA_LANGUAGES" default:"te,en"`
	BatchSize           int           `envconfig:"JANAVARTA_PIPELINE_BATCH_SIZE" default:"10"`
	PollInterval        time.Duration `envconfig:"JANAVARTA_PIPELINE_POLL_INTERVAL" default:"2m"`
	DraftMinWords       int           `envconfig:"JANAVARTA_DRAFT_MIN_WORDS" default:"58"`
	DraftMaxWords       int           `envconfig:"JANAVARTA_DRAFT_MAX_WORDS" default:"60"`
	DraftMaxAttempts    int           `envconfig:"JANAVARTA_DRAFT_MAX_ATTEMPTS" default:"3"`
	DraftMaxTitleChars  int           `envconfig:"JANAVARTA_DRAFT_MAX_TITLE_CHARS" default:"35"`
	DefaultCategoryName string        `envconfig:"JANAVARTA_DEFAULT_CATEGORY" default:"Community"`
	SimilarityThreshold float64       `envconfig:"JANAVARTA_CATEGORY_SIMILARITY_THRESHOLD" default:"0.9"`
	CategoryAutoCreate  bool          `envconfig:"JANAVARTA_CATEGORY_AUTO_CREATE" default:"true"`
	CategoryMinChars    int           `envconfig:"JANAVARTA_CATEGORY_MIN_CHARS" default:"3"`
	CategoryMaxChars    int           `envconfig:"JANAVARTA_CATEGORY_MAX_CHARS" default:"40"`
	CategoryMaxWords    int           `envconfig:"JANAVARTA_CATEGORY_MAX_WORDS" default:"4"`
	MonthlyTokenQuota   int64         `envconfig:"JANAVARTA_MONTHLY_TOKEN_QUOTA" default:"2000000"`
	TemplateCacheTTL    time.Duration `envconfig:"JANAVARTA_TEMPLATE_CACHE_TTL" default:"5m"`
	CallbackTimeout     time.Duration `envconfig:"JANAVARTA_CALLBACK_TIMEOUT" default:"10s"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a configuration suitable for tests: an in-memory sqlite
// store and the shipped pipeline defaults, without touching the process
// environment singleton.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Type: "sqlite", Name: "file::memory:?cache=shared"},
		Service:  &svcConfig{OpsAddress: ":8090", LogLevel: "info"},
		Provider: &providerConfig{Model: "gemini-2.0-flash", Timeout: 90 * time.Second},
		Pipeline: &pipelineConfig{
			Languages:           []string{"te", "en"},
			BatchSize:           10,
			PollInterval:        2 * time.Minute,
			DraftMinWords:       58,
			DraftMaxWords:       60,
			DraftMaxAttempts:    3,
			DraftMaxTitleChars:  35,
			DefaultCategoryName: "Community",
			SimilarityThreshold: 0.9,
			CategoryAutoCreate:  true,
			CategoryMinChars:    3,
			CategoryMaxChars:    40,
			CategoryMaxWords:    4,
			MonthlyTokenQuota:   2000000,
			TemplateCacheTTL:    5 * time.Minute,
			CallbackTimeout:     10 * time.Second,
		},
	}
}
