package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/Evolve2048/internal/common"
	"github.com/mitchelldurbincs/Evolve2048/internal/config"
	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/ui/input"
	"github.com/mitchelldurbincs/Evolve2048/internal/ui/renderer"
)

const (
	boardMargin = 20
	headerSize  = 80
)

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

func TileSize() int {
	return config.Get().UI.TileSize
}

func AutoplayInterval() int {
	return config.Get().UI.AutoplayInterval
}

// Game is the ebiten game: one engine, a planner for suggested moves and
// continuous autoplay, keyboard and swipe input.
type Game struct {
	engine        *game.Engine
	planner       game.Suggester
	boardRenderer *renderer.EnhancedBoardRenderer
	inputHandler  *input.Handler
	defaultFont   font.Face
	logger        zerolog.Logger

	autoplay      bool
	autoplayTimer int
	autoplayEvery int

	// UI state
	statusMessage string
	messageTimer  int
}

// NewGame creates a new Ebitengine game instance.
func NewGame(engine *game.Engine, planner game.Suggester, logger zerolog.Logger) *Game {
	tileSize := TileSize()
	g := &Game{
		engine:        engine,
		planner:       planner,
		defaultFont:   basicfont.Face7x13,
		inputHandler:  input.NewHandler(tileSize / 3),
		autoplayEvery: AutoplayInterval(),
		logger:        logger.With().Str("component", "UIGame").Logger(),
	}
	g.boardRenderer = renderer.NewEnhancedBoardRenderer(tileSize, boardMargin, headerSize, g.defaultFont)
	return g
}

// Update proceeds the game state.
func (g *Game) Update() error {
	if g.messageTimer > 0 {
		g.messageTimer--
	}
	g.boardRenderer.Tick()

	for _, cmd := range g.inputHandler.Update() {
		g.apply(cmd)
	}
	g.tickAutoplay()
	return nil
}

// Draw renders the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)

	g.boardRenderer.Draw(screen, g.engine.Tiles(), g.engine.IsGameOver())

	scoreStr := fmt.Sprintf("Score: %d   Moves: %d", g.engine.Score(), g.engine.Moves())
	text.Draw(screen, scoreStr, g.defaultFont, boardMargin, 25, common.StatusTextColor)

	autoStr := "Autoplay: off (A)"
	if g.autoplay {
		autoStr = "Autoplay: on (A)"
	}
	text.Draw(screen, autoStr, g.defaultFont, boardMargin, 45, common.StatusTextColor)
	text.Draw(screen, "Arrows/swipe: move  Space: hint  R: restart", g.defaultFont, boardMargin, 65, common.StatusTextColor)

	if g.messageTimer > 0 && g.statusMessage != "" {
		y := headerSize + g.boardRenderer.BoardSize() + 25
		text.Draw(screen, g.statusMessage, g.defaultFont, boardMargin, y, common.StatusTextColor)
	}
}

// Layout defines the Ebitengine screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}
