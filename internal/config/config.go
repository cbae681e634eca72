// Package config loads the arena configuration from YAML, a .env file and
// environment variables, in that order of precedence (last wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-arena/internal/version"
	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration of the arena process.
type Config struct {
	// Version is the engine version the file was written for. Empty means current.
	Version    string           `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version this config was written for"`
	LogLevel   string           `yaml:"log_level" json:"logLevel" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"oneof=debug info warn error"`
	Tournament TournamentConfig `yaml:"tournament" json:"tournament"`
	Price      PriceConfig      `yaml:"price" json:"price"`
	External   ExternalConfig   `yaml:"external" json:"external"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	// Agents are registered when the tournament starts.
	Agents []AgentConfig `yaml:"agents" json:"agents" validate:"dive"`
}

// TournamentConfig controls the scheduler and the starting balances.
type TournamentConfig struct {
	InitialCash       float64       `yaml:"initial_cash" json:"initialCash" jsonschema:"title=Initial Cash,description=Cash balance every agent starts with,default=1000" validate:"gt=0"`
	TickInterval      time.Duration `yaml:"tick_interval" json:"tickInterval" jsonschema:"title=Tick Interval,description=Time between scheduler ticks,type=string,default=1m" validate:"gt=0"`
	MaxParallelAgents int           `yaml:"max_parallel_agents" json:"maxParallelAgents" jsonschema:"title=Max Parallel Agents,description=Agents evaluated concurrently within one tick,default=8" validate:"gte=1"`
}

// PriceConfig selects and configures the primary and fallback price sources.
type PriceConfig struct {
	Primary         string            `yaml:"primary" json:"primary" jsonschema:"title=Primary Source,enum=coingecko,enum=multiversx,enum=binance,enum=polygon,enum=static,enum=synthetic,default=coingecko" validate:"oneof=coingecko multiversx binance polygon static synthetic"`
	Fallback        string            `yaml:"fallback" json:"fallback" jsonschema:"title=Fallback Source,enum=coingecko,enum=multiversx,enum=binance,enum=polygon,enum=static,enum=synthetic,default=multiversx" validate:"omitempty,oneof=coingecko multiversx binance polygon static synthetic,nefield=Primary"`
	CacheTTL        time.Duration     `yaml:"cache_ttl" json:"cacheTTL" jsonschema:"title=Cache TTL,type=string,default=30s" validate:"gte=0"`
	RequestTimeout  time.Duration     `yaml:"request_timeout" json:"requestTimeout" jsonschema:"title=Request Timeout,description=Per source timeout,type=string,default=10s" validate:"gt=0"`
	HistoryCapacity int               `yaml:"history_capacity" json:"historyCapacity" jsonschema:"title=History Capacity,default=100" validate:"gte=21"`
	CoinGecko       CoinGeckoConfig   `yaml:"coingecko" json:"coingecko"`
	MultiversX      MultiversXConfig  `yaml:"multiversx" json:"multiversx"`
	Binance         BinanceConfig     `yaml:"binance" json:"binance"`
	Polygon         PolygonConfig     `yaml:"polygon" json:"polygon"`
	Static          StaticPriceConfig `yaml:"static" json:"static"`
	Synthetic       SyntheticConfig   `yaml:"synthetic" json:"synthetic"`
}

type CoinGeckoConfig struct {
	BaseURL    string `yaml:"base_url" json:"baseUrl" validate:"required,url"`
	CoinID     string `yaml:"coin_id" json:"coinId" validate:"required"`
	VsCurrency string `yaml:"vs_currency" json:"vsCurrency" validate:"required"`
	APIKey     string `yaml:"api_key" json:"apiKey"`
}

type MultiversXConfig struct {
	APIURL string `yaml:"api_url" json:"apiUrl" validate:"required,url"`
}

type BinanceConfig struct {
	// BaseURL overrides the Binance REST endpoint. Empty uses the client default.
	BaseURL string `yaml:"base_url" json:"baseUrl" validate:"omitempty,url"`
	Symbol  string `yaml:"symbol" json:"symbol" validate:"required"`
}

type PolygonConfig struct {
	APIKey string `yaml:"api_key" json:"apiKey"`
	From   string `yaml:"from" json:"from" validate:"required"`
	To     string `yaml:"to" json:"to" validate:"required"`
}

type StaticPriceConfig struct {
	Price float64 `yaml:"price" json:"price" validate:"gte=0"`
}

// SyntheticConfig drives a seeded random walk, for offline simulations.
type SyntheticConfig struct {
	Seed         int64   `yaml:"seed" json:"seed"`
	InitialPrice float64 `yaml:"initial_price" json:"initialPrice" validate:"gt=0"`
	// Volatility is the standard deviation of one step (0.01 = 1%).
	Volatility float64 `yaml:"volatility" json:"volatility" validate:"gte=0,lt=1"`
	// Drift is the mean relative change of one step.
	Drift float64 `yaml:"drift" json:"drift" validate:"gt=-1,lt=1"`
}

// ExternalConfig configures the HTTP decision provider used by external agents.
type ExternalConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" validate:"omitempty,url"`
	APIKey      string        `yaml:"api_key" json:"apiKey"`
	Model       string        `yaml:"model" json:"model"`
	Temperature float64       `yaml:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `yaml:"max_tokens" json:"maxTokens" validate:"gte=1"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"type=string,default=30s" validate:"gt=0"`
}

// ServerConfig configures the REST and WebSocket surface.
type ServerConfig struct {
	Enabled                      bool          `yaml:"enabled" json:"enabled"`
	Port                         int           `yaml:"port" json:"port" validate:"gte=1,lte=65535"`
	LeaderboardCacheTTL          time.Duration `yaml:"leaderboard_cache_ttl" json:"leaderboardCacheTTL" jsonschema:"type=string,default=10s" validate:"gte=0"`
	LeaderboardBroadcastInterval time.Duration `yaml:"leaderboard_broadcast_interval" json:"leaderboardBroadcastInterval" jsonschema:"type=string,default=10m" validate:"gt=0"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" json:"dir" validate:"required"`
	// AuditFormat selects the audit log writer.
	AuditFormat string `yaml:"audit_format" json:"auditFormat" jsonschema:"enum=jsonl,enum=duckdb,enum=none,default=jsonl" validate:"oneof=jsonl duckdb none"`
}

// AgentConfig is an agent registered at startup.
type AgentConfig struct {
	ID       string `yaml:"id" json:"id" validate:"required"`
	Owner    string `yaml:"owner" json:"owner" validate:"required"`
	Strategy string `yaml:"strategy" json:"strategy" validate:"required"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version:  "",
		LogLevel: "info",
		Tournament: TournamentConfig{
			InitialCash:       1000,
			TickInterval:      60 * time.Second,
			MaxParallelAgents: 8,
		},
		Price: PriceConfig{
			Primary:         "coingecko",
			Fallback:        "multiversx",
			CacheTTL:        30 * time.Second,
			RequestTimeout:  10 * time.Second,
			HistoryCapacity: 100,
			CoinGecko: CoinGeckoConfig{
				BaseURL:    "https://api.coingecko.com/api/v3",
				CoinID:     "elrond-erd-2",
				VsCurrency: "usd",
				APIKey:     "",
			},
			MultiversX: MultiversXConfig{
				APIURL: "https://testnet-api.multiversx.com",
			},
			Binance: BinanceConfig{
				BaseURL: "",
				Symbol:  "EGLDUSDT",
			},
			Polygon: PolygonConfig{
				APIKey: "",
				From:   "EGLD",
				To:     "USD",
			},
			Static: StaticPriceConfig{
				Price: 0,
			},
			Synthetic: SyntheticConfig{
				Seed:         42,
				InitialPrice: 30,
				Volatility:   0.01,
				Drift:        0,
			},
		},
		External: ExternalConfig{
			Endpoint:    "",
			APIKey:      "",
			Model:       "gemini-1.5-flash",
			Temperature: 0.3,
			MaxTokens:   256,
			Timeout:     30 * time.Second,
		},
		Server: ServerConfig{
			Enabled:                      true,
			Port:                         3001,
			LeaderboardCacheTTL:          10 * time.Second,
			LeaderboardBroadcastInterval: 10 * time.Minute,
		},
		Output: OutputConfig{
			Dir:         "./logs",
			AuditFormat: "jsonl",
		},
		Agents: []AgentConfig{},
	}
}

// Load builds the configuration. Values from the YAML file at path (optional)
// are applied over the defaults, then the .env file and process environment
// override them. The result is validated before it is returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
		}
	}

	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load .env", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, target *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*target = v
		}
	}

	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOGS_DIR", &c.Output.Dir)
	setString("AUDIT_FORMAT", &c.Output.AuditFormat)
	setString("COINGECKO_API_KEY", &c.Price.CoinGecko.APIKey)
	setString("MVX_API_URL", &c.Price.MultiversX.APIURL)
	setString("POLYGON_API_KEY", &c.Price.Polygon.APIKey)
	setString("PRICE_PRIMARY", &c.Price.Primary)
	setString("PRICE_FALLBACK", &c.Price.Fallback)
	setString("DECISION_PROVIDER_URL", &c.External.Endpoint)
	setString("DECISION_PROVIDER_API_KEY", &c.External.APIKey)

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid PORT %q", v)
		}

		c.Server.Port = port
	}

	if v := strings.TrimSpace(getenv("TICK_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid TICK_INTERVAL %q", v)
		}

		c.Tournament.TickInterval = d
	}

	return nil
}

// Validate checks field constraints and the config version.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.usesSource("static") && c.Price.Static.Price <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "static price source requires a positive price")
	}

	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidVersion, "config version is not supported", err)
	}

	return nil
}

func (c *Config) usesSource(kind string) bool {
	return c.Price.Primary == kind || c.Price.Fallback == kind
}

// Save writes the configuration to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
