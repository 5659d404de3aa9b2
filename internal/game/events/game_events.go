package events

import (
	"time"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted       = "game.started"
	TypeGameOver          = "game.over"
	TypeMoveExecuted      = "move.executed"
	TypeMoveRejected      = "move.rejected"
	TypePlannerSuggested  = "planner.suggested"
	TypeRoundCompleted    = "population.round_completed"
	TypeGenerationRanked  = "population.ranked"
	TypeGenerationEvolved = "population.evolved"
	TypeNetworkSaved      = "network.saved"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	InitialTiles int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, initialTiles int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:    newBase(TypeGameStarted, gameID),
		InitialTiles: initialTiles,
	}
}

// GameOverEvent is published when no legal move remains
type GameOverEvent struct {
	BaseEvent
	Score       uint32
	Moves       int
	HighestTile uint32
}

// NewGameOverEvent creates a new GameOverEvent
func NewGameOverEvent(gameID string, score uint32, moves int, highestTile uint32) *GameOverEvent {
	return &GameOverEvent{
		BaseEvent:   newBase(TypeGameOver, gameID),
		Score:       score,
		Moves:       moves,
		HighestTile: highestTile,
	}
}

// MoveExecutedEvent is published after a move changed the board
type MoveExecutedEvent struct {
	BaseEvent
	Direction   core.Direction
	ScoreGained uint32
	Score       uint32
	Moves       int
}

// NewMoveExecutedEvent creates a new MoveExecutedEvent
func NewMoveExecutedEvent(gameID string, d core.Direction, gained, score uint32, moves int) *MoveExecutedEvent {
	return &MoveExecutedEvent{
		BaseEvent:   newBase(TypeMoveExecuted, gameID),
		Direction:   d,
		ScoreGained: gained,
		Score:       score,
		Moves:       moves,
	}
}

// MoveRejectedEvent is published when a move leaves the board unchanged
type MoveRejectedEvent struct {
	BaseEvent
	Direction core.Direction
}

// NewMoveRejectedEvent creates a new MoveRejectedEvent
func NewMoveRejectedEvent(gameID string, d core.Direction) *MoveRejectedEvent {
	return &MoveRejectedEvent{
		BaseEvent: newBase(TypeMoveRejected, gameID),
		Direction: d,
	}
}

// PlannerSuggestedEvent is published when the planner recommends a move
type PlannerSuggestedEvent struct {
	BaseEvent
	Direction core.Direction
	Found     bool
	Duration  time.Duration
}

// NewPlannerSuggestedEvent creates a new PlannerSuggestedEvent
func NewPlannerSuggestedEvent(gameID string, d core.Direction, found bool, took time.Duration) *PlannerSuggestedEvent {
	return &PlannerSuggestedEvent{
		BaseEvent: newBase(TypePlannerSuggested, gameID),
		Direction: d,
		Found:     found,
		Duration:  took,
	}
}

// RoundCompletedEvent is published after every agent finished one play pass
type RoundCompletedEvent struct {
	BaseEvent
	Generation int
	Agents     int
	Duration   time.Duration
}

// NewRoundCompletedEvent creates a new RoundCompletedEvent
func NewRoundCompletedEvent(runID string, generation, agents int, took time.Duration) *RoundCompletedEvent {
	return &RoundCompletedEvent{
		BaseEvent:  newBase(TypeRoundCompleted, runID),
		Generation: generation,
		Agents:     agents,
		Duration:   took,
	}
}

// GenerationRankedEvent carries the ranking statistics of a generation
type GenerationRankedEvent struct {
	BaseEvent
	Generation   int
	BestAvgScore float64
	MeanScore    float64
	HighestTile  uint32
}

// NewGenerationRankedEvent creates a new GenerationRankedEvent
func NewGenerationRankedEvent(runID string, generation int, best, mean float64, highestTile uint32) *GenerationRankedEvent {
	return &GenerationRankedEvent{
		BaseEvent:    newBase(TypeGenerationRanked, runID),
		Generation:   generation,
		BestAvgScore: best,
		MeanScore:    mean,
		HighestTile:  highestTile,
	}
}

// GenerationEvolvedEvent is published after selection and refill
type GenerationEvolvedEvent struct {
	BaseEvent
	Generation int
	Retained   int
	Mutated    int
}

// NewGenerationEvolvedEvent creates a new GenerationEvolvedEvent
func NewGenerationEvolvedEvent(runID string, generation, retained, mutated int) *GenerationEvolvedEvent {
	return &GenerationEvolvedEvent{
		BaseEvent:  newBase(TypeGenerationEvolved, runID),
		Generation: generation,
		Retained:   retained,
		Mutated:    mutated,
	}
}

// NetworkSavedEvent is published when a network is written to a store
type NetworkSavedEvent struct {
	BaseEvent
	Name    string
	Backend string
}

// NewNetworkSavedEvent creates a new NetworkSavedEvent
func NewNetworkSavedEvent(runID, name, backend string) *NetworkSavedEvent {
	return &NetworkSavedEvent{
		BaseEvent: newBase(TypeNetworkSaved, runID),
		Name:      name,
		Backend:   backend,
	}
}
