package population

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/Evolve2048/internal/agent"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
)

func testConfig(agents int) Config {
	return Config{
		Agents:      agents,
		LayerSizes:  []int{16, 8, 4},
		Activations: []nn.Activation{nn.ReLU, nn.Identity},
		Encoding:    agent.EncodingExponents,
		Workers:     4,
		Seed:        12345,
		RunID:       "test-run",
		Logger:      zerolog.Nop(),
	}
}

func newTestPopulation(t *testing.T, agents int) *Population {
	t.Helper()
	p, err := New(testConfig(agents))
	require.NoError(t, err)
	return p
}

// setScores gives agent i the single recorded score scores[i].
func setScores(p *Population, scores ...uint32) {
	for i, s := range scores {
		p.Agents[i].Scores = []uint32{s}
		p.Agents[i].HighestTiles = []uint32{2}
	}
}

func TestNew(t *testing.T) {
	p := newTestPopulation(t, 10)

	assert.Len(t, p.Agents, 10)
	assert.Zero(t, p.EvolutionStep)
	assert.Equal(t, "test-run", p.RunID())
	ids := map[string]bool{}
	for _, a := range p.Agents {
		ids[a.ID] = true
		assert.Equal(t, []int{16, 8, 4}, a.Network.Sizes())
	}
	assert.Len(t, ids, 10)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(testConfig(0))
	assert.ErrorIs(t, err, ErrEmptyPopulation)

	cfg := testConfig(3)
	cfg.Activations = []nn.Activation{nn.ReLU}
	_, err = New(cfg)
	assert.ErrorIs(t, err, nn.ErrLayerActivationMismatch)

	cfg = testConfig(3)
	cfg.LayerSizes = []int{16, 8, 3}
	_, err = New(cfg)
	assert.ErrorIs(t, err, agent.ErrOutputWidth)
}

func TestNewFromNetwork(t *testing.T) {
	seed := newTestPopulation(t, 1).Agents[0].Network

	p, err := NewFromNetwork(testConfig(4), seed, 1, 0.1)
	require.NoError(t, err)
	require.Len(t, p.Agents, 4)
	assert.Equal(t, seed, p.Agents[0].Network)
	assert.NotSame(t, seed, p.Agents[0].Network)
	for _, a := range p.Agents[1:] {
		assert.NotEqual(t, seed, a.Network)
	}

	_, err = NewFromNetwork(testConfig(4), seed, 2, 0.1)
	assert.ErrorIs(t, err, ErrInvalidMutation)
}

func TestPlay(t *testing.T) {
	p := newTestPopulation(t, 20)
	require.NoError(t, p.Play(context.Background(), 50))

	for _, a := range p.Agents {
		assert.Len(t, a.Scores, 1)
		assert.Len(t, a.HighestTiles, 1)
		assert.LessOrEqual(t, a.Steps, 50)
	}
}

func TestPlay_Cancelled(t *testing.T) {
	p := newTestPopulation(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Play(ctx, 50), context.Canceled)
}

func TestPlay_DeterministicForSeed(t *testing.T) {
	a := newTestPopulation(t, 8)
	b := newTestPopulation(t, 8)
	require.NoError(t, a.Play(context.Background(), 100))
	require.NoError(t, b.Play(context.Background(), 100))
	assert.Equal(t, a.Scores(), b.Scores(), "scheduling must not affect outcomes")
}

func TestResetAgents(t *testing.T) {
	p := newTestPopulation(t, 3)
	require.NoError(t, p.Play(context.Background(), 30))
	p.ResetAgents()

	for _, a := range p.Agents {
		assert.Zero(t, a.Steps)
		assert.Zero(t, a.State.Score)
		assert.Len(t, a.Scores, 1)
	}
}

func TestEvaluate_PublishesEvents(t *testing.T) {
	bus := events.NewEventBus(zerolog.Nop())
	rounds, ranked := 0, 0
	bus.SubscribeFunc(events.TypeRoundCompleted, func(events.Event) { rounds++ })
	bus.SubscribeFunc(events.TypeGenerationRanked, func(events.Event) { ranked++ })

	cfg := testConfig(6)
	cfg.Publisher = bus
	p, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, p.Evaluate(context.Background(), 3, 40))
	assert.Equal(t, 3, rounds)
	assert.Equal(t, 1, ranked)
	for _, a := range p.Agents {
		assert.Len(t, a.Scores, 3)
		assert.Zero(t, a.Steps, "agents are reset after each round")
	}
}

func TestBestAgent(t *testing.T) {
	empty := &Population{}
	_, ok := empty.BestAgent()
	assert.False(t, ok)

	p := newTestPopulation(t, 4)
	setScores(p, 10, 40, 40, 5)
	best, ok := p.BestAgent()
	require.True(t, ok)
	assert.Same(t, p.Agents[1], best, "first of equal scores wins")
	assert.Equal(t, []float64{10, 40, 40, 5}, p.Scores())
}

func TestKeepCount(t *testing.T) {
	tests := []struct {
		n    int
		keep float64
		want int
	}{
		{1000, 0.05, 50},
		{10, 0.3, 3},
		{10, 0.25, 3},
		{10, 1, 10},
		{3, 0.01, 1},
		{7, 0.5, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeepCount(tt.n, tt.keep), "n=%d keep=%v", tt.n, tt.keep)
	}
}

func TestEvolve(t *testing.T) {
	p := newTestPopulation(t, 10)
	setScores(p, 1, 9, 3, 8, 2, 7, 4, 6, 5, 0)
	top := []*agent.Agent{p.Agents[1], p.Agents[3], p.Agents[5]}

	require.NoError(t, p.Evolve(0.3, 0.5, 0.2))

	assert.Equal(t, 1, p.EvolutionStep)
	require.Len(t, p.Agents, 10)
	assert.Equal(t, top, p.Agents[:3], "survivors are kept in rank order")

	parents := map[string]*agent.Agent{}
	for _, a := range top {
		parents[a.ID] = a
	}
	for _, child := range p.Agents[3:] {
		parent, ok := parents[child.ParentID]
		require.True(t, ok, "children descend from survivors")
		assert.Equal(t, parent.Scores, child.Scores, "children inherit histories")
		assert.Zero(t, child.Steps)
		assert.Len(t, child.State.Tiles(), 2)
	}
}

func TestEvolve_KeepAll(t *testing.T) {
	p := newTestPopulation(t, 4)
	before := append([]*agent.Agent(nil), p.Agents...)
	require.NoError(t, p.Evolve(1, 0.1, 0.1))
	assert.ElementsMatch(t, before, p.Agents)
}

func TestEvolve_Errors(t *testing.T) {
	p := newTestPopulation(t, 4)

	tests := []struct {
		name            string
		keep, rate, mag float64
		want            error
	}{
		{"zero keep", 0, 0.1, 0.1, ErrInvalidProportion},
		{"keep above one", 1.5, 0.1, 0.1, ErrInvalidProportion},
		{"negative rate", 0.5, -0.1, 0.1, ErrInvalidMutation},
		{"rate above one", 0.5, 1.1, 0.1, ErrInvalidMutation},
		{"negative magnitude", 0.5, 0.1, -1, ErrInvalidMutation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, p.Evolve(tt.keep, tt.rate, tt.mag), tt.want)
		})
	}
	assert.Zero(t, p.EvolutionStep)

	assert.ErrorIs(t, (&Population{}).Evolve(0.5, 0.1, 0.1), ErrEmptyPopulation)
}

func TestSummary(t *testing.T) {
	p := newTestPopulation(t, 3)
	setScores(p, 10, 30, 20)
	p.Agents[2].HighestTiles = []uint32{128}

	s := p.Summary()
	assert.Equal(t, "test-run", s.RunID)
	assert.Equal(t, 3, s.Agents)
	assert.Equal(t, p.Agents[1].ID, s.BestAgentID)
	assert.Equal(t, 30.0, s.BestAvgScore)
	assert.Equal(t, 20.0, s.MeanScore)
	assert.Equal(t, uint32(128), s.HighestTile)
}

func BenchmarkGeneration(b *testing.B) {
	p, err := New(testConfig(50))
	require.NoError(b, err)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		require.NoError(b, p.Evaluate(ctx, 2, 200))
		require.NoError(b, p.Evolve(0.1, 0.1, 0.1))
	}
}
