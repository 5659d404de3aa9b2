package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mitchelldurbincs/Evolve2048/internal/config"
	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/Evolve2048/internal/grpc/plannerserver"
	"github.com/mitchelldurbincs/Evolve2048/internal/mcts"
)

// autoplay plays one game to the end with the rollout planner and prints the
// board as it goes.
func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Game seed (0 for time based)")
	remote := flag.String("planner-addr", "", "Use a remote planner server instead of the local planner")
	every := flag.Int("print-every", 50, "Print the board every N moves (0 to only print the final board)")
	verbose := flag.Bool("v", false, "Log every game event")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	fmt.Printf("Game seed: %d\n", *seed)

	var suggester game.Suggester
	if *remote != "" {
		conn, err := grpc.NewClient(*remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatal().Err(err).Str("address", *remote).Msg("Failed to connect to planner server")
		}
		defer conn.Close()
		suggester = plannerserver.NewClient(conn, 30*time.Second)
	} else {
		suggester = mcts.New(mcts.Config{
			SearchesPerMove: cfg.Planner.SearchesPerMove,
			Depth:           cfg.Planner.Depth,
			Workers:         cfg.Planner.Workers,
			Seed:            *seed,
			Logger:          log.Logger,
		})
	}

	bus := events.NewEventBus(log.Logger)
	if *verbose {
		bus.Subscribe(subscribers.NewLoggerSubscriber("autoplay_events", log.Logger, zerolog.DebugLevel))
	}

	engine := game.NewEngine(game.GameConfig{
		Rng:       rand.New(rand.NewSource(*seed)),
		Logger:    log.Logger,
		Publisher: bus,
	})

	start := time.Now()
	for !engine.IsGameOver() {
		d, ok := engine.SuggestAndStep(suggester)
		if !ok {
			break
		}
		if *every > 0 && engine.Moves()%*every == 0 {
			fmt.Printf("Move %d (%s):\n%s\n", engine.Moves(), d, engine.State())
		}
	}

	final := engine.State()
	highest, _ := final.HighestTile()
	fmt.Printf("Final board:\n%s\n", final)
	fmt.Printf("Score %d after %d moves, highest tile %d (%s)\n",
		final.Score, final.Moves, highest, time.Since(start).Round(time.Millisecond))
}
