package agent

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/nn"
)

// Agent pairs one network with one live game and plays greedily.
// An Agent is owned by a single goroutine at a time.
type Agent struct {
	ID       string
	ParentID string

	Network      *nn.Network
	State        game.State
	Scores       []uint32
	HighestTiles []uint32
	Steps        int

	encoding Encoding
	rng      *rand.Rand
}

// New pairs net with a fresh game. The agent draws spawns and mutations from
// its own generator seeded with seed.
func New(net *nn.Network, enc Encoding, seed int64) (*Agent, error) {
	if net.OutputWidth() != core.NumDirections {
		return nil, fmt.Errorf("output width %d: %w", net.OutputWidth(), ErrOutputWidth)
	}
	if net.InputWidth() != enc.Width() {
		return nil, fmt.Errorf("input width %d, %s encoding needs %d: %w",
			net.InputWidth(), enc, enc.Width(), ErrInputWidth)
	}

	rng := rand.New(rand.NewSource(seed))
	return &Agent{
		ID:       uuid.NewString(),
		Network:  net,
		State:    game.New(rng),
		encoding: enc,
		rng:      rng,
	}, nil
}

func (a *Agent) Encoding() Encoding { return a.encoding }

// ChooseAction returns the arg-max direction of the network output. Ties go to
// the lowest index.
func (a *Agent) ChooseAction() core.Direction {
	out := a.Network.Forward(a.encoding.Encode(a.State))
	best := 0
	for i := 1; i < len(out); i++ {
		if out[i] > out[best] {
			best = i
		}
	}
	d, err := core.DirectionFromIndex(best)
	if err != nil {
		panic(err)
	}
	return d
}

// Step plays one chosen action. It returns false without counting a step when
// the game is already over.
func (a *Agent) Step() bool {
	if a.State.IsTerminal() {
		return false
	}
	changed := a.State.Step(a.ChooseAction(), a.rng)
	a.Steps++
	return changed
}

// Play runs the greedy policy until the game ends, maxSteps is reached, or the
// chosen move leaves the board unchanged, then records the episode. A no-op
// move ends the episode rather than falling back to the next-best action.
func (a *Agent) Play(maxSteps int) {
	for !a.State.IsTerminal() && a.Steps < maxSteps {
		if !a.Step() {
			break
		}
	}
	highest, _ := a.State.HighestTile()
	a.Scores = append(a.Scores, a.State.Score)
	a.HighestTiles = append(a.HighestTiles, highest)
}

// Reset starts a fresh game. The network and histories are kept.
func (a *Agent) Reset() {
	a.Steps = 0
	a.State = game.New(a.rng)
}

// AvgScore is the mean recorded score, 0 before any episode.
func (a *Agent) AvgScore() float64 {
	if len(a.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range a.Scores {
		sum += float64(s)
	}
	return sum / float64(len(a.Scores))
}

// HighestTile is the best tile over all recorded episodes.
func (a *Agent) HighestTile() (uint32, bool) {
	if len(a.HighestTiles) == 0 {
		return 0, false
	}
	best := a.HighestTiles[0]
	for _, v := range a.HighestTiles[1:] {
		if v > best {
			best = v
		}
	}
	return best, true
}

// Mutate perturbs the network in place.
func (a *Agent) Mutate(rate, magnitude float64) {
	a.Network.Mutate(rate, magnitude, a.rng)
}

// Clone deep-copies the agent, histories and game included. The clone gets a
// new id, records a as its parent and draws from its own generator.
func (a *Agent) Clone(seed int64) *Agent {
	return &Agent{
		ID:           uuid.NewString(),
		ParentID:     a.ID,
		Network:      a.Network.Clone(),
		State:        a.State,
		Scores:       append([]uint32(nil), a.Scores...),
		HighestTiles: append([]uint32(nil), a.HighestTiles...),
		Steps:        a.Steps,
		encoding:     a.encoding,
		rng:          rand.New(rand.NewSource(seed)),
	}
}
