package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/promptforge/internal/api"
	"github.com/promptforge/internal/api/auth"
	"github.com/promptforge/internal/config"
	"github.com/promptforge/internal/database"
	"github.com/promptforge/internal/jobqueue"
	"github.com/promptforge/internal/library"
	"github.com/promptforge/internal/llm"
	"github.com/promptforge/internal/logging"
	"github.com/promptforge/internal/prompts"
)

const inferenceTimeout = 90 * time.Second

// APICommand returns the CLI command for starting the API server
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Start the promptforge API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides server.port)",
			},
		},
		Action: runAPI,
	}
}

func runAPI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	port := cfg.Server.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	composer := prompts.NewComposer()
	deps := api.Deps{
		Composer:  composer,
		Tokens:    auth.NewTokenService(cfg.Auth.JWTSecret),
		RateLimit: rate.Limit(cfg.Server.RateLimit),
		RateBurst: cfg.Server.RateBurst,
		Defaults: api.SamplingDefaults{
			NumberOfResponses: cfg.Defaults.NumberOfResponses,
			DistributionType:  cfg.Defaults.DistributionType,
		},
	}
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("auth.jwt_secret is empty; authenticated routes will reject every request")
	}

	enhancer, model, err := newEnhancer(ctx, cfg.AI, composer)
	if err != nil {
		return err
	}
	if enhancer != nil {
		deps.Enhancer = enhancer
		deps.RunModel = model
	}

	var store library.Store
	if cfg.Database.URL != "" {
		db, err := database.NewDB(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		pg := library.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store = pg
		deps.Library = library.NewService(store, composer)
	} else {
		log.Warn().Msg("database.url is empty; the prompt library is disabled")
	}

	if cfg.Queue.Enabled {
		if enhancer == nil {
			return fmt.Errorf("queue is enabled but no AI provider is configured")
		}
		preset, err := jobqueue.PresetQueueConfig(cfg.Queue.Preset)
		if err != nil {
			return err
		}
		queueConfig := preset.Override(cfg.Queue.MaxWorkers, cfg.Queue.MaxAttempts, cfg.Queue.JobTimeout)
		log.Info().
			Str("preset", cfg.Queue.Preset).
			Int("max_workers", queueConfig.MaxWorkers).
			Int("max_attempts", queueConfig.MaxAttempts).
			Dur("job_timeout", queueConfig.JobTimeout).
			Msg("starting job queue")
		queue, err := jobqueue.NewJobQueue(ctx, cfg.Database.URL, queueConfig, jobqueue.NewRunner(store, enhancer, model))
		if err != nil {
			return err
		}
		if err := queue.Migrate(ctx); err != nil {
			return err
		}
		if err := queue.Start(ctx); err != nil {
			return fmt.Errorf("failed to start job queue: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := queue.Stop(stopCtx); err != nil {
				log.Error().Err(err).Msg("job queue did not stop cleanly")
			}
		}()
		deps.Queue = queue
	}

	return api.NewServer(port, deps).Start(ctx)
}

// newEnhancer returns nil when no provider is configured.
func newEnhancer(ctx context.Context, ai config.AIConfig, composer *prompts.Composer) (*llm.Enhancer, string, error) {
	if ai.Provider == "" {
		log.Info().Msg("ai.provider is empty; inference routes are disabled")
		return nil, "", nil
	}
	conn, err := llm.NewConnector(ctx, llm.ConnectorOptions{
		Provider: llm.Provider(ai.Provider),
		APIKey:   ai.APIKey,
		BaseURL:  ai.BaseURL,
		ModelConfig: llm.ModelConfig{
			Temperature: ai.Temperature,
			MaxTokens:   ai.MaxTokens,
			Model:       ai.Model,
		},
	})
	if err != nil {
		return nil, "", err
	}
	return llm.NewEnhancer(conn, composer, inferenceTimeout), conn.Model(), nil
}
