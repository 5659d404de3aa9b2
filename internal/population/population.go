package population

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/Evolve2048/internal/agent"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
)

// Config holds what a Population needs to build its agents.
type Config struct {
	Agents      int
	LayerSizes  []int
	Activations []nn.Activation
	Encoding    agent.Encoding
	Workers     int   // 0 means GOMAXPROCS
	Seed        int64 // 0 means time based
	RunID       string
	Logger      zerolog.Logger
	Publisher   events.Publisher
}

// Population is a fixed-size set of agents evolved by truncation selection
// and mutation-only refill.
type Population struct {
	Agents        []*agent.Agent
	EvolutionStep int

	rng       *rand.Rand
	workers   int
	runID     string
	logger    zerolog.Logger
	publisher events.Publisher
}

func newEmpty(cfg Config) (*Population, error) {
	if cfg.Agents <= 0 {
		return nil, fmt.Errorf("%d agents: %w", cfg.Agents, ErrEmptyPopulation)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	return &Population{
		Agents:    make([]*agent.Agent, 0, cfg.Agents),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		workers:   cfg.Workers,
		runID:     cfg.RunID,
		logger:    cfg.Logger.With().Str("component", "Population").Str("run_id", cfg.RunID).Logger(),
		publisher: events.OrNop(cfg.Publisher),
	}, nil
}

// New builds cfg.Agents agents with randomly initialised networks.
func New(cfg Config) (*Population, error) {
	p, err := newEmpty(cfg)
	if err != nil {
		return nil, err
	}
	for i := 0; i < cfg.Agents; i++ {
		net, err := nn.New(cfg.LayerSizes, cfg.Activations, p.rng)
		if err != nil {
			return nil, fmt.Errorf("building network %d: %w", i, err)
		}
		a, err := agent.New(net, cfg.Encoding, p.rng.Int63())
		if err != nil {
			return nil, fmt.Errorf("building agent %d: %w", i, err)
		}
		p.Agents = append(p.Agents, a)
	}
	p.logger.Info().
		Int("agents", len(p.Agents)).
		Ints("layers", cfg.LayerSizes).
		Int("workers", p.workers).
		Msg("Population created")
	return p, nil
}

// NewFromNetwork seeds every agent from net. The first agent carries net
// unchanged; the others carry mutated copies.
func NewFromNetwork(cfg Config, net *nn.Network, rate, magnitude float64) (*Population, error) {
	if err := validateMutation(rate, magnitude); err != nil {
		return nil, err
	}
	p, err := newEmpty(cfg)
	if err != nil {
		return nil, err
	}
	for i := 0; i < cfg.Agents; i++ {
		a, err := agent.New(net.Clone(), cfg.Encoding, p.rng.Int63())
		if err != nil {
			return nil, fmt.Errorf("building agent %d: %w", i, err)
		}
		if i > 0 {
			a.Mutate(rate, magnitude)
		}
		p.Agents = append(p.Agents, a)
	}
	p.logger.Info().
		Int("agents", len(p.Agents)).
		Ints("layers", net.Sizes()).
		Msg("Population seeded from network")
	return p, nil
}

func (p *Population) RunID() string { return p.runID }

// Play runs one episode for every agent in parallel and waits for all of them.
// Agents own their game, network and generator so they share nothing.
func (p *Population) Play(ctx context.Context, maxSteps int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, a := range p.Agents {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a.Play(maxSteps)
			return nil
		})
	}
	return g.Wait()
}

// ResetAgents gives every agent a fresh game. Histories are kept.
func (p *Population) ResetAgents() {
	for _, a := range p.Agents {
		a.Reset()
	}
}

// Evaluate plays rounds of Play followed by ResetAgents to build each agent's
// average score.
func (p *Population) Evaluate(ctx context.Context, rounds, maxSteps int) error {
	for r := 0; r < rounds; r++ {
		start := time.Now()
		if err := p.Play(ctx, maxSteps); err != nil {
			return fmt.Errorf("round %d: %w", r, err)
		}
		p.ResetAgents()
		p.publisher.Publish(events.NewRoundCompletedEvent(p.runID, p.EvolutionStep, len(p.Agents), time.Since(start)))
	}

	s := p.Summary()
	p.publisher.Publish(events.NewGenerationRankedEvent(p.runID, s.Generation, s.BestAvgScore, s.MeanScore, s.HighestTile))
	p.logger.Debug().
		Int("generation", s.Generation).
		Int("rounds", rounds).
		Float64("best_avg_score", s.BestAvgScore).
		Float64("mean_score", s.MeanScore).
		Msg("Generation evaluated")
	return nil
}

// Scores returns every agent's average score in population order.
func (p *Population) Scores() []float64 {
	scores := make([]float64, len(p.Agents))
	for i, a := range p.Agents {
		scores[i] = a.AvgScore()
	}
	return scores
}

// BestAgent returns the agent with the highest average score; the first one
// wins ties. ok is false for an empty population.
func (p *Population) BestAgent() (*agent.Agent, bool) {
	if len(p.Agents) == 0 {
		return nil, false
	}
	best := p.Agents[0]
	bestScore := best.AvgScore()
	for _, a := range p.Agents[1:] {
		if s := a.AvgScore(); s > bestScore {
			best, bestScore = a, s
		}
	}
	return best, true
}

// KeepCount is ceil(n * keep), at least 1. A small epsilon absorbs products
// such as 10*0.3 that land just above an integer.
func KeepCount(n int, keep float64) int {
	k := int(math.Ceil(float64(n)*keep - 1e-9))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

func validateMutation(rate, magnitude float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 || math.IsNaN(magnitude) || magnitude < 0 {
		return fmt.Errorf("rate %v magnitude %v: %w", rate, magnitude, ErrInvalidMutation)
	}
	return nil
}

// Evolve ranks agents by average score, keeps the top ceil(n*keep) as they
// are, and refills the remaining slots with mutated clones of uniformly chosen
// survivors. Children inherit their parent's histories and start a fresh game.
func (p *Population) Evolve(keep, rate, magnitude float64) error {
	n := len(p.Agents)
	if n == 0 {
		return ErrEmptyPopulation
	}
	if math.IsNaN(keep) || keep <= 0 || keep > 1 {
		return fmt.Errorf("keep %v: %w", keep, ErrInvalidProportion)
	}
	if err := validateMutation(rate, magnitude); err != nil {
		return err
	}

	ranked := make([]*agent.Agent, n)
	copy(ranked, p.Agents)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgScore() > ranked[j].AvgScore()
	})

	// Products like 10*0.3 keep 3 here, not the 4 a bare ceil would give.
	retained := ranked[:KeepCount(n, keep)]
	next := make([]*agent.Agent, 0, n)
	next = append(next, retained...)
	for len(next) < n {
		parent := retained[p.rng.Intn(len(retained))]
		child := parent.Clone(p.rng.Int63())
		child.Mutate(rate, magnitude)
		child.Reset()
		next = append(next, child)
	}

	p.Agents = next
	p.EvolutionStep++

	mutated := n - len(retained)
	p.publisher.Publish(events.NewGenerationEvolvedEvent(p.runID, p.EvolutionStep, len(retained), mutated))
	p.logger.Debug().
		Int("generation", p.EvolutionStep).
		Int("retained", len(retained)).
		Int("mutated", mutated).
		Msg("Population evolved")
	return nil
}
