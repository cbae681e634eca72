package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/rxtech-lab/argo-arena/internal/api"
	"github.com/rxtech-lab/argo-arena/internal/config"
	"github.com/rxtech-lab/argo-arena/internal/leaderboard"
	"github.com/rxtech-lab/argo-arena/internal/logger"
	"github.com/rxtech-lab/argo-arena/internal/tournament"
	"github.com/rxtech-lab/argo-arena/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	schemaFileName = "arena-config.json"
	sampleFileName = "arena-config.yaml"
)

func loadConfig(cmd *cli.Command) (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}

	log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, log, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	defer log.Sync() //nolint:errcheck

	if port := cmd.Int("port"); port > 0 {
		cfg.Server.Port = int(port)
	}

	engine, err := tournament.NewFromConfig(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Received interrupt signal, stopping")
		cancel()
	}()

	var server *api.Server
	if cfg.Server.Enabled && !cmd.Bool("no-server") {
		server = api.NewServer(engine, cfg.Server, log.Named("api"))
		if err := server.Start(ctx, ":"+strconv.Itoa(cfg.Server.Port)); err != nil {
			_ = engine.Close()

			return err
		}
	}

	engine.Start(ctx)
	<-ctx.Done()

	engine.Stop()
	engine.Wait()

	if server != nil {
		if err := server.Stop(); err != nil {
			log.Warn("Failed to stop API server", zap.Error(err))
		}
	}

	fmt.Fprintln(cmd.Root().Writer, leaderboard.Format(engine.Leaderboard()))

	return engine.Close()
}

func simulateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	defer log.Sync() //nolint:errcheck

	cfg.Price.Primary = string(types.PriceSourceSynthetic)
	cfg.Price.Fallback = ""
	// Every tick needs a new sample.
	cfg.Price.CacheTTL = 0

	if cmd.IsSet("seed") {
		cfg.Price.Synthetic.Seed = cmd.Int64("seed")
	}

	if out := cmd.String("output"); out != "" {
		cfg.Output.Dir = out
	}

	if len(cfg.Agents) == 0 {
		cfg.Agents = defaultAgents()
	}

	engine, err := tournament.NewFromConfig(cfg, log)
	if err != nil {
		return err
	}

	ticks := int(cmd.Int("ticks"))
	for i := 0; i < ticks; i++ {
		if _, err := engine.Tick(ctx); err != nil {
			log.Warn("Tick failed", zap.Int("tick", i+1), zap.Error(err))
		}
	}

	fmt.Fprintln(cmd.Root().Writer, leaderboard.Format(engine.Leaderboard()))
	log.Info("Simulation finished", zap.Int("ticks", ticks), zap.String("run_path", engine.RunPath()))

	return engine.Close()
}

// defaultAgents registers one agent per built-in strategy.
func defaultAgents() []config.AgentConfig {
	return []config.AgentConfig{
		{ID: "momentum", Owner: "erd1momentum", Strategy: string(types.StrategyKindMomentum)},
		{ID: "dca", Owner: "erd1dca", Strategy: string(types.StrategyKindDCA)},
		{ID: "mean-reversion", Owner: "erd1meanreversion", Strategy: string(types.StrategyKindMeanReversion)},
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")

	schemaJSON, err := config.GetConfigSchema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	schemaPath := filepath.Join(dir, schemaFileName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	samplePath := filepath.Join(dir, sampleFileName)
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		sample := config.Default()
		sample.Agents = defaultAgents()

		yamlBytes, err := yaml.Marshal(sample)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaFileName+"\n"), yamlBytes...)
		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}

		fmt.Fprintf(cmd.Root().Writer, "Sample config written to %s\n", samplePath)
	}

	fmt.Fprintf(cmd.Root().Writer, "Schema written to %s\n", schemaPath)

	return nil
}
