package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.level()).
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.Int("initial_tiles", e.InitialTiles)

	case *events.GameOverEvent:
		logEvent.
			Uint32("score", e.Score).
			Int("moves", e.Moves).
			Uint32("highest_tile", e.HighestTile)

	case *events.MoveExecutedEvent:
		logEvent.
			Stringer("direction", e.Direction).
			Uint32("score_gained", e.ScoreGained).
			Uint32("score", e.Score).
			Int("moves", e.Moves)

	case *events.MoveRejectedEvent:
		logEvent.Stringer("direction", e.Direction)

	case *events.PlannerSuggestedEvent:
		logEvent.
			Bool("found", e.Found).
			Dur("duration", e.Duration)
		if e.Found {
			logEvent.Stringer("direction", e.Direction)
		}

	case *events.RoundCompletedEvent:
		logEvent.
			Int("generation", e.Generation).
			Int("agents", e.Agents).
			Dur("duration", e.Duration)

	case *events.GenerationRankedEvent:
		logEvent.
			Int("generation", e.Generation).
			Float64("best_avg_score", e.BestAvgScore).
			Float64("mean_score", e.MeanScore).
			Uint32("highest_tile", e.HighestTile)

	case *events.GenerationEvolvedEvent:
		logEvent.
			Int("generation", e.Generation).
			Int("retained", e.Retained).
			Int("mutated", e.Mutated)

	case *events.NetworkSavedEvent:
		logEvent.
			Str("name", e.Name).
			Str("backend", e.Backend)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}

func (ls *LoggerSubscriber) level() zerolog.Level {
	switch ls.logLevel {
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel:
		return ls.logLevel
	default:
		return zerolog.InfoLevel
	}
}
