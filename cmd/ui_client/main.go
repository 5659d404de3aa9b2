package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mitchelldurbincs/Evolve2048/internal/config"
	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/grpc/plannerserver"
	"github.com/mitchelldurbincs/Evolve2048/internal/mcts"
	"github.com/mitchelldurbincs/Evolve2048/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	remote := flag.String("planner-addr", "", "Use a remote planner server for hints and autoplay")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	var planner game.Suggester
	if *remote != "" {
		conn, err := grpc.NewClient(*remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatal().Err(err).Str("address", *remote).Msg("Failed to connect to planner server")
		}
		defer conn.Close()
		planner = plannerserver.NewClient(conn, 5*time.Second)
	} else {
		planner = mcts.New(mcts.Config{
			SearchesPerMove: cfg.Planner.SearchesPerMove,
			Depth:           cfg.Planner.Depth,
			Workers:         cfg.Planner.Workers,
			Logger:          logger,
		})
	}

	engine := game.NewEngine(game.GameConfig{
		Rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger: logger,
	})

	ebiten.SetWindowSize(ui.ScreenWidth(), ui.ScreenHeight())
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(ui.NewGame(engine, planner, logger)); err != nil {
		logger.Fatal().Err(err).Msg("UI exited")
	}
}
