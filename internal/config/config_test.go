package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-arena/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "config_test_*")
	s.Require().NoError(err)
	s.tempDir = tempDir
}

func (s *ConfigTestSuite) TearDownTest() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

func (s *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.tempDir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (s *ConfigTestSuite) TestDefaultIsValid() {
	cfg := Default()
	s.NoError(cfg.Validate())
	s.Equal(1000.0, cfg.Tournament.InitialCash)
	s.Equal(60*time.Second, cfg.Tournament.TickInterval)
	s.Equal(30*time.Second, cfg.Price.CacheTTL)
	s.Equal(10*time.Second, cfg.Price.RequestTimeout)
	s.Equal(100, cfg.Price.HistoryCapacity)
	s.Equal("coingecko", cfg.Price.Primary)
	s.Equal("multiversx", cfg.Price.Fallback)
	s.Equal(3001, cfg.Server.Port)
}

func (s *ConfigTestSuite) TestLoadWithoutFileUsesDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal("elrond-erd-2", cfg.Price.CoinGecko.CoinID)
	s.Equal("./logs", cfg.Output.Dir)
}

func (s *ConfigTestSuite) TestLoadYAMLOverridesDefaults() {
	path := s.writeFile("arena.yaml", `
log_level: debug
tournament:
  initial_cash: 2500
  tick_interval: 15s
price:
  primary: binance
  fallback: coingecko
  cache_ttl: 5s
agents:
  - id: alpha
    owner: erd1alpha
    strategy: momentum
`)

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal("debug", cfg.LogLevel)
	s.Equal(2500.0, cfg.Tournament.InitialCash)
	s.Equal(15*time.Second, cfg.Tournament.TickInterval)
	s.Equal("binance", cfg.Price.Primary)
	s.Equal(5*time.Second, cfg.Price.CacheTTL)
	// untouched fields keep their defaults
	s.Equal(10*time.Second, cfg.Price.RequestTimeout)
	s.Require().Len(cfg.Agents, 1)
	s.Equal("alpha", cfg.Agents[0].ID)
}

func (s *ConfigTestSuite) TestEnvOverridesFile() {
	path := s.writeFile("arena.yaml", "server:\n  port: 4000\n")
	s.T().Setenv("PORT", "5050")
	s.T().Setenv("COINGECKO_API_KEY", "demo-key")
	s.T().Setenv("TICK_INTERVAL", "2m")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(5050, cfg.Server.Port)
	s.Equal("demo-key", cfg.Price.CoinGecko.APIKey)
	s.Equal(2*time.Minute, cfg.Tournament.TickInterval)
}

func (s *ConfigTestSuite) TestInvalidEnvPort() {
	s.T().Setenv("PORT", "not-a-port")

	_, err := Load("")
	s.Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *ConfigTestSuite) TestMissingFile() {
	_, err := Load(filepath.Join(s.tempDir, "missing.yaml"))
	s.Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (s *ConfigTestSuite) TestValidationFailures() {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.ErrorCode
	}{
		{
			name:   "non positive initial cash",
			mutate: func(c *Config) { c.Tournament.InitialCash = 0 },
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "unknown primary source",
			mutate: func(c *Config) { c.Price.Primary = "kraken" },
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "fallback equals primary",
			mutate: func(c *Config) { c.Price.Fallback = c.Price.Primary },
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "history too short for ema",
			mutate: func(c *Config) { c.Price.HistoryCapacity = 10 },
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "static source without price",
			mutate: func(c *Config) { c.Price.Fallback = "static" },
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "agent without id",
			mutate: func(c *Config) { c.Agents = []AgentConfig{{ID: "", Owner: "erd1", Strategy: "dca"}} },
			code:   errors.ErrCodeInvalidConfiguration,
		},
		{
			name:   "config written for a newer engine",
			mutate: func(c *Config) { c.Version = "99.0.0" },
			code:   errors.ErrCodeInvalidVersion,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			s.Error(err)
			s.True(errors.HasCode(err, tt.code))
		})
	}
}

func (s *ConfigTestSuite) TestSaveAndLoadRoundTrip() {
	cfg := Default()
	cfg.Tournament.TickInterval = 45 * time.Second
	cfg.Price.Primary = "static"
	cfg.Price.Static.Price = 42.5

	path := filepath.Join(s.tempDir, "saved.yaml")
	s.Require().NoError(Save(path, cfg))

	loaded, err := Load(path)
	s.Require().NoError(err)
	s.Equal(45*time.Second, loaded.Tournament.TickInterval)
	s.Equal("static", loaded.Price.Primary)
	s.Equal(42.5, loaded.Price.Static.Price)
}

func (s *ConfigTestSuite) TestGetConfigSchema() {
	raw, err := GetConfigSchema()
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal([]byte(raw), &decoded))
	properties, ok := decoded["properties"].(map[string]any)
	s.Require().True(ok)
	s.Contains(properties, "tournament")
	s.Contains(properties, "price")
	s.Equal("Arena configuration", decoded["title"])
	s.NotContains(raw, "$ref")

	// nested sections are inlined
	tournament, ok := properties["tournament"].(map[string]any)
	s.Require().True(ok)
	s.Contains(tournament, "properties")
}
