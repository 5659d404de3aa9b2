package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/Evolve2048/internal/config"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/Evolve2048/internal/monitoring"
	"github.com/mitchelldurbincs/Evolve2048/internal/storage"
	"github.com/mitchelldurbincs/Evolve2048/internal/trainer"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay (loads config.<env>.yaml)")
	resume := flag.String("resume", "", "Name of a stored network to seed the population from")
	generations := flag.Int("generations", -1, "Generations to run (-1 to use config default)")
	agents := flag.Int("agents", -1, "Population size (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Random seed (0 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	logEvents := flag.Bool("log-events", false, "Log every population event")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
	}

	// Flags override config
	if *generations != -1 {
		config.Set("trainer.generations", *generations)
	}
	if *agents != -1 {
		config.Set("trainer.agents", *agents)
	}
	if *seed != 0 {
		config.Set("trainer.seed", *seed)
	}
	cfg := config.Get()
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Storage
	store, err := storage.NewStore(cfg.Storage.Backend, cfg.Storage.Path, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create store")
	}
	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	// Events and monitoring
	bus := events.NewEventBus(log.Logger)
	monitor := monitoring.NewRunMonitor(log.Logger)
	bus.Subscribe(monitor)
	if *logEvents {
		bus.Subscribe(subscribers.NewLoggerSubscriber("trainer_events", log.Logger, zerolog.InfoLevel))
	}
	monitor.Start()
	defer monitor.Stop()

	t, err := trainer.New(ctx, trainer.Options{
		Config:    cfg.Trainer,
		Resume:    *resume,
		Store:     store,
		Backend:   cfg.Storage.Backend,
		Logger:    log.Logger,
		Publisher: bus,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create trainer")
	}

	// Mutation settings follow edits to the config file
	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(next *config.Config) {
			t.SetMutation(trainer.MutationParams{
				KeepProportion: next.Trainer.KeepProportion,
				Rate:           next.Trainer.MutationRate,
				Magnitude:      next.Trainer.MutationMagnitude,
			})
		})
	}

	log.Info().
		Str("run_id", t.Population().RunID()).
		Int("agents", cfg.Trainer.Agents).
		Int("generations", cfg.Trainer.Generations).
		Ints("layers", cfg.Trainer.Layers).
		Str("backend", cfg.Storage.Backend).
		Msg("Starting training")

	start := time.Now()
	if err := t.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Training failed")
		monitor.Log()
		os.Exit(1)
	}
	monitor.Log()
	log.Info().Dur("duration", time.Since(start)).Msg("Training complete")
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// JSON output for production or when configured
	if os.Getenv("APP_ENV") == "production" || format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
