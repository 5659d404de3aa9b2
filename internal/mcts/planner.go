package mcts

import (
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
)

const (
	DefaultSearchesPerMove = 200
	DefaultDepth           = 20
)

// Config tunes a Planner. Zero values select the defaults.
type Config struct {
	SearchesPerMove int
	Depth           int
	Workers         int
	Seed            int64
	Logger          zerolog.Logger
}

// Candidate is the aggregate rollout score of one legal direction.
type Candidate struct {
	Direction core.Direction
	Score     uint64
}

// Planner scores each legal move by the post-move score plus the final scores
// of independent random rollouts. It is safe for concurrent use.
type Planner struct {
	searches int
	depth    int
	workers  int
	logger   zerolog.Logger

	mu    sync.Mutex
	seeds *rand.Rand
}

// New creates a planner.
func New(cfg Config) *Planner {
	if cfg.SearchesPerMove <= 0 {
		cfg.SearchesPerMove = DefaultSearchesPerMove
	}
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Planner{
		searches: cfg.SearchesPerMove,
		depth:    cfg.Depth,
		workers:  cfg.Workers,
		logger:   cfg.Logger.With().Str("component", "Planner").Logger(),
		seeds:    rand.New(rand.NewSource(cfg.Seed)),
	}
}

var (
	defaultOnce    sync.Once
	defaultPlanner *Planner
)

// Suggest runs the default planner on s.
func Suggest(s game.State) (core.Direction, bool) {
	defaultOnce.Do(func() { defaultPlanner = New(Config{}) })
	return defaultPlanner.Suggest(s)
}

// Suggest returns the legal direction with the highest aggregate score, the
// earliest in Left, Right, Up, Down order on ties. ok is false when no move is legal.
func (p *Planner) Suggest(s game.State) (core.Direction, bool) {
	start := time.Now()
	candidates := p.Evaluate(s)
	if len(candidates) == 0 {
		p.logger.Debug().Msg("No legal move")
		return 0, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	p.logger.Debug().
		Stringer("direction", best.Direction).
		Uint64("score", best.Score).
		Int("candidates", len(candidates)).
		Dur("duration", time.Since(start)).
		Msg("Planner suggestion")
	return best.Direction, true
}

// Evaluate scores every legal direction of s in enumeration order. Each
// direction draws from its own generator, seeded before the fan-out so a fixed
// seed gives the same scores regardless of scheduling.
func (p *Planner) Evaluate(s game.State) []Candidate {
	legal := s.LegalMoves()
	if len(legal) == 0 {
		return nil
	}

	seeds := make([]int64, len(legal))
	p.mu.Lock()
	for i := range seeds {
		seeds[i] = p.seeds.Int63()
	}
	p.mu.Unlock()

	candidates := make([]Candidate, len(legal))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, d := range legal {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[i]))
			candidates[i] = Candidate{Direction: d, Score: p.score(s, d, rng)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error().Err(err).Msg("Rollout evaluation failed")
	}
	return candidates
}

func (p *Planner) score(root game.State, d core.Direction, rng *rand.Rand) uint64 {
	post := root
	post.Move(d)
	total := uint64(post.Score)
	for i := 0; i < p.searches; i++ {
		total += uint64(p.rollout(post, rng))
	}
	return total
}

// rollout spawns a tile, then plays uniformly random legal moves until the game
// ends or depth levels are reached.
func (p *Planner) rollout(sim game.State, rng *rand.Rand) uint32 {
	sim.SpawnTile(rng)
	for level := 1; level < p.depth && !sim.IsTerminal(); level++ {
		legal := sim.LegalMoves()
		sim.Step(legal[rng.Intn(len(legal))], rng)
	}
	return sim.Score
}
