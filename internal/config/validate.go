package config

import (
	"fmt"
	"math"

	"github.com/mitchelldurbincs/Evolve2048/internal/agent"
	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
	"github.com/rs/zerolog"
)

// Validate validates the configuration values
func Validate(c *Config) error {
	if err := validateTrainer(&c.Trainer); err != nil {
		return err
	}

	// Validate planner configuration
	if c.Planner.SearchesPerMove <= 0 {
		return fmt.Errorf("planner.searches_per_move must be positive")
	}
	if c.Planner.Depth <= 0 {
		return fmt.Errorf("planner.depth must be positive")
	}
	if c.Planner.Workers < 0 {
		return fmt.Errorf("planner.workers must be non-negative")
	}

	// Validate storage configuration
	switch c.Storage.Backend {
	case "memory":
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("storage.backend must be one of file, sqlite, memory")
	}

	// Validate server configuration
	if c.Server.Planner.Port <= 0 || c.Server.Planner.Port > 65535 {
		return fmt.Errorf("server.planner.port must be between 1 and 65535")
	}
	if c.Server.Planner.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.planner.graceful_shutdown_delay must be non-negative")
	}
	if _, err := zerolog.ParseLevel(c.Server.Planner.LogLevel); err != nil {
		return fmt.Errorf("server.planner.log_level: %w", err)
	}

	// Validate UI configuration
	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.TileSize <= 0 {
		return fmt.Errorf("ui.tile_size must be positive")
	}
	if c.UI.AutoplayInterval <= 0 {
		return fmt.Errorf("ui.autoplay_interval must be positive")
	}

	// Validate logging configuration
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}

func validateTrainer(t *TrainerConfig) error {
	if t.Agents <= 0 {
		return fmt.Errorf("trainer.agents must be positive")
	}
	if len(t.Layers) < 2 {
		return fmt.Errorf("trainer.layers needs at least an input and an output width")
	}
	for i, w := range t.Layers {
		if w <= 0 {
			return fmt.Errorf("trainer.layers[%d] must be positive", i)
		}
	}
	if len(t.Layers) != len(t.Activations)+1 {
		return fmt.Errorf("trainer.layers must have exactly one more entry than trainer.activations")
	}
	if _, err := nn.ParseActivations(t.Activations); err != nil {
		return fmt.Errorf("trainer.activations: %w", err)
	}
	enc, err := agent.ParseEncoding(t.Encoding)
	if err != nil {
		return fmt.Errorf("trainer.encoding: %w", err)
	}
	if t.Layers[0] != enc.Width() {
		return fmt.Errorf("trainer.layers[0] must be %d for the %s encoding", enc.Width(), enc)
	}
	if t.Layers[len(t.Layers)-1] != 4 {
		return fmt.Errorf("trainer.layers must end with 4 outputs")
	}
	if t.Rounds <= 0 || t.MaxSteps <= 0 || t.Generations <= 0 {
		return fmt.Errorf("trainer.rounds, trainer.max_steps and trainer.generations must be positive")
	}
	if math.IsNaN(t.KeepProportion) || t.KeepProportion <= 0 || t.KeepProportion > 1 {
		return fmt.Errorf("trainer.keep_proportion must be in (0, 1]")
	}
	if t.MutationRate < 0 || t.MutationRate > 1 {
		return fmt.Errorf("trainer.mutation_rate must be between 0 and 1")
	}
	if t.MutationMagnitude < 0 {
		return fmt.Errorf("trainer.mutation_magnitude must be non-negative")
	}
	if t.ReportEvery <= 0 {
		return fmt.Errorf("trainer.report_every must be positive")
	}
	if t.Workers < 0 {
		return fmt.Errorf("trainer.workers must be non-negative")
	}
	return nil
}
