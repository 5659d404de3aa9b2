package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
)

// Suggester recommends a move for a state. ok is false when no move is legal.
type Suggester interface {
	Suggest(s State) (d core.Direction, ok bool)
}

// GameConfig holds what an interactive Engine needs
type GameConfig struct {
	Rng       *rand.Rand
	Logger    zerolog.Logger
	Publisher events.Publisher
	GameID    string
}

// Engine owns one live game for interactive front ends (UI, autoplay, gRPC).
// It is not safe for concurrent use.
type Engine struct {
	state     State
	rng       *rand.Rand
	logger    zerolog.Logger
	publisher events.Publisher
	gameID    string
	gameOver  bool
}

// NewEngine starts a new game.
func NewEngine(cfg GameConfig) *Engine {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.GameID == "" {
		cfg.GameID = uuid.NewString()
	}

	e := &Engine{
		rng:       cfg.Rng,
		logger:    cfg.Logger.With().Str("component", "GameEngine").Str("game_id", cfg.GameID).Logger(),
		publisher: events.OrNop(cfg.Publisher),
		gameID:    cfg.GameID,
	}
	e.start()
	return e
}

func (e *Engine) start() {
	e.state = New(e.rng)
	e.gameOver = e.state.IsTerminal()
	e.publisher.Publish(events.NewGameStartedEvent(e.gameID, len(e.state.Tiles())))
	e.logger.Debug().Msg("Game started")
}

// Restart discards the current game and starts a fresh one with the same id.
func (e *Engine) Restart() {
	e.start()
}

// Step applies d. It returns false, and publishes a rejection, when the board
// did not change or the game is already over.
func (e *Engine) Step(d core.Direction) bool {
	if e.gameOver {
		return false
	}
	if !d.Valid() {
		e.logger.Warn().Int("direction", int(d)).Msg("Ignoring invalid direction")
		return false
	}

	gained, changed := e.state.StepGain(d, e.rng)
	if !changed {
		e.publisher.Publish(events.NewMoveRejectedEvent(e.gameID, d))
		return false
	}
	e.publisher.Publish(events.NewMoveExecutedEvent(e.gameID, d, gained, e.state.Score, e.state.Moves))

	if e.state.IsTerminal() {
		e.gameOver = true
		highest, _ := e.state.HighestTile()
		e.publisher.Publish(events.NewGameOverEvent(e.gameID, e.state.Score, e.state.Moves, highest))
		e.logger.Info().
			Uint32("score", e.state.Score).
			Int("moves", e.state.Moves).
			Uint32("highest_tile", highest).
			Msg("Game over")
	}
	return true
}

// SuggestAndStep asks s for a move and applies it.
func (e *Engine) SuggestAndStep(s Suggester) (core.Direction, bool) {
	if e.gameOver {
		return 0, false
	}
	start := time.Now()
	d, ok := s.Suggest(e.state)
	e.publisher.Publish(events.NewPlannerSuggestedEvent(e.gameID, d, ok, time.Since(start)))
	if !ok {
		return 0, false
	}
	return d, e.Step(d)
}

// State returns a copy of the live game.
func (e *Engine) State() State { return e.state }

func (e *Engine) Tiles() []TileInfo { return e.state.Tiles() }

func (e *Engine) Score() uint32 { return e.state.Score }

func (e *Engine) Moves() int { return e.state.Moves }

func (e *Engine) LegalMoves() []core.Direction { return e.state.LegalMoves() }

func (e *Engine) IsGameOver() bool { return e.gameOver }

func (e *Engine) GameID() string { return e.gameID }
