package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/Evolve2048/internal/agent"
	"github.com/mitchelldurbincs/Evolve2048/internal/config"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
	"github.com/mitchelldurbincs/Evolve2048/internal/population"
	"github.com/mitchelldurbincs/Evolve2048/internal/storage"
)

var ErrResumeNotFound = errors.New("resume network not found")

// Options wires a Trainer to its collaborators.
type Options struct {
	Config config.TrainerConfig
	// Resume names a stored network to seed the population from. Empty starts
	// from random networks.
	Resume    string
	Store     storage.Store
	Backend   string
	Logger    zerolog.Logger
	Publisher events.Publisher
}

// MutationParams are the selection and mutation settings that may change
// while a run is in progress.
type MutationParams struct {
	KeepProportion float64
	Rate           float64
	Magnitude      float64
}

// Trainer runs the generation loop: evaluate, record, report, evolve.
type Trainer struct {
	cfg       config.TrainerConfig
	pop       *population.Population
	store     storage.Store
	backend   string
	logger    zerolog.Logger
	publisher events.Publisher

	mu       sync.RWMutex
	mutation MutationParams
}

// New builds the population, seeding it from opts.Resume when set.
func New(ctx context.Context, opts Options) (*Trainer, error) {
	c := opts.Config
	acts, err := nn.ParseActivations(c.Activations)
	if err != nil {
		return nil, err
	}
	enc, err := agent.ParseEncoding(c.Encoding)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger.With().Str("component", "Trainer").Logger()
	publisher := events.OrNop(opts.Publisher)
	popCfg := population.Config{
		Agents:      c.Agents,
		LayerSizes:  c.Layers,
		Activations: acts,
		Encoding:    enc,
		Workers:     c.Workers,
		Seed:        c.Seed,
		RunID:       c.RunID,
		Logger:      opts.Logger,
		Publisher:   publisher,
	}

	var pop *population.Population
	if opts.Resume != "" {
		if opts.Store == nil {
			return nil, fmt.Errorf("resume %q: %w", opts.Resume, storage.ErrStoreNotInitialized)
		}
		net, ok, err := storage.LoadNetwork(ctx, opts.Store, opts.Resume)
		if err != nil {
			return nil, fmt.Errorf("loading network %q: %w", opts.Resume, err)
		}
		if !ok {
			return nil, fmt.Errorf("%q: %w", opts.Resume, ErrResumeNotFound)
		}
		pop, err = population.NewFromNetwork(popCfg, net, c.MutationRate, c.MutationMagnitude)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("network", opts.Resume).Ints("layers", net.Sizes()).Msg("Resuming from saved network")
	} else {
		pop, err = population.New(popCfg)
		if err != nil {
			return nil, err
		}
	}

	return &Trainer{
		cfg:       c,
		pop:       pop,
		store:     opts.Store,
		backend:   opts.Backend,
		logger:    logger.With().Str("run_id", pop.RunID()).Logger(),
		publisher: publisher,
		mutation: MutationParams{
			KeepProportion: c.KeepProportion,
			Rate:           c.MutationRate,
			Magnitude:      c.MutationMagnitude,
		},
	}, nil
}

func (t *Trainer) Population() *population.Population { return t.pop }

// Mutation returns the settings the next Evolve will use.
func (t *Trainer) Mutation() MutationParams {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mutation
}

// SetMutation replaces the selection and mutation settings from the next
// generation on.
func (t *Trainer) SetMutation(m MutationParams) {
	t.mu.Lock()
	t.mutation = m
	t.mu.Unlock()
	t.logger.Info().
		Float64("keep_proportion", m.KeepProportion).
		Float64("mutation_rate", m.Rate).
		Float64("mutation_magnitude", m.Magnitude).
		Msg("Mutation settings updated")
}

// RunGeneration evaluates the population, records the generation summary,
// reports every ReportEvery generations and evolves.
func (t *Trainer) RunGeneration(ctx context.Context) (population.Summary, error) {
	start := time.Now()
	if err := t.pop.Evaluate(ctx, t.cfg.Rounds, t.cfg.MaxSteps); err != nil {
		return population.Summary{}, err
	}

	summary := t.pop.Summary()
	if t.store != nil {
		if err := t.store.SaveGeneration(ctx, summary); err != nil {
			return summary, fmt.Errorf("saving generation %d: %w", summary.Generation, err)
		}
	}

	if t.cfg.ReportEvery > 0 && summary.Generation%t.cfg.ReportEvery == 0 {
		t.report(summary, time.Since(start))
		if err := t.SaveBest(ctx); err != nil {
			return summary, err
		}
	}

	m := t.Mutation()
	if err := t.pop.Evolve(m.KeepProportion, m.Rate, m.Magnitude); err != nil {
		return summary, fmt.Errorf("evolving generation %d: %w", summary.Generation, err)
	}
	return summary, nil
}

func (t *Trainer) report(s population.Summary, took time.Duration) {
	best, _ := t.pop.BestAgent()
	highest, _ := best.HighestTile()
	t.logger.Info().
		Int("generation", s.Generation).
		Float64("best_avg_score", s.BestAvgScore).
		Uint32("best_highest_tile", highest).
		Float64("mean_score", s.MeanScore).
		Uint32("highest_tile", s.HighestTile).
		Dur("duration", took).
		Msg("Generation report")
}

// Run executes the configured number of generations, saving the best network
// once more at the end. It stops early when ctx is cancelled.
func (t *Trainer) Run(ctx context.Context) error {
	for g := 0; g < t.cfg.Generations; g++ {
		if err := ctx.Err(); err != nil {
			t.logger.Info().Int("generation", t.pop.EvolutionStep).Msg("Training interrupted")
			return t.finish(err)
		}
		if _, err := t.RunGeneration(ctx); err != nil {
			return t.finish(err)
		}
	}
	return t.finish(nil)
}

func (t *Trainer) finish(runErr error) error {
	// Fresh context: an interrupted run still saves its best network.
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := t.SaveBest(saveCtx); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// SaveBest stores the network of the best agent under the configured name.
// It is a no-op without a store or a save name.
func (t *Trainer) SaveBest(ctx context.Context) error {
	if t.store == nil || t.cfg.SaveBest == "" {
		return nil
	}
	best, ok := t.pop.BestAgent()
	if !ok {
		return nil
	}
	if err := t.store.SaveNetwork(ctx, t.cfg.SaveBest, best.Network.Record()); err != nil {
		return fmt.Errorf("saving best network: %w", err)
	}
	t.publisher.Publish(events.NewNetworkSavedEvent(t.pop.RunID(), t.cfg.SaveBest, t.backend))
	t.logger.Debug().
		Str("name", t.cfg.SaveBest).
		Str("agent_id", best.ID).
		Float64("avg_score", best.AvgScore()).
		Msg("Best network saved")
	return nil
}
