package ui

import (
	"fmt"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/ui/input"
)

func (g *Game) apply(cmd input.Command) {
	switch cmd.Kind {
	case input.CommandMove:
		g.move(cmd.Direction)
	case input.CommandPlannerMove:
		g.plannerMove()
	case input.CommandToggleAutoplay:
		g.autoplay = !g.autoplay
		g.autoplayTimer = 0
		g.logger.Info().Bool("autoplay", g.autoplay).Msg("Autoplay toggled")
	case input.CommandRestart:
		g.engine.Restart()
		g.autoplay = false
		g.showMessage("New game", 60)
	}
}

func (g *Game) move(d core.Direction) {
	if g.engine.IsGameOver() {
		return
	}
	if g.engine.Step(d) {
		g.boardRenderer.Highlight()
		return
	}
	g.showMessage(fmt.Sprintf("%s does not move anything", d), 45)
}

func (g *Game) plannerMove() {
	if g.engine.IsGameOver() || g.planner == nil {
		return
	}
	d, ok := g.engine.SuggestAndStep(g.planner)
	if !ok {
		g.autoplay = false
		return
	}
	g.boardRenderer.Highlight()
	g.showMessage(fmt.Sprintf("Planner moved %s", d), 30)
}

// tickAutoplay plays one planner move every autoplayEvery frames while
// autoplay is on. Autoplay switches itself off when the game ends.
func (g *Game) tickAutoplay() {
	if !g.autoplay {
		return
	}
	if g.engine.IsGameOver() {
		g.autoplay = false
		return
	}
	g.autoplayTimer++
	if g.autoplayTimer < g.autoplayEvery {
		return
	}
	g.autoplayTimer = 0
	g.plannerMove()
}

func (g *Game) showMessage(msg string, duration int) {
	g.statusMessage = msg
	g.messageTimer = duration
}
