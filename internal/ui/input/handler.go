package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
)

// CommandKind identifies what the player asked for this frame.
type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandPlannerMove
	CommandToggleAutoplay
	CommandRestart
)

// Command is one player request. Direction is only meaningful for CommandMove.
type Command struct {
	Kind      CommandKind
	Direction core.Direction
}

var keyCommands = map[ebiten.Key]Command{
	ebiten.KeyArrowLeft:  {Kind: CommandMove, Direction: core.Left},
	ebiten.KeyArrowRight: {Kind: CommandMove, Direction: core.Right},
	ebiten.KeyArrowUp:    {Kind: CommandMove, Direction: core.Up},
	ebiten.KeyArrowDown:  {Kind: CommandMove, Direction: core.Down},
	ebiten.KeyH:          {Kind: CommandMove, Direction: core.Left},
	ebiten.KeyL:          {Kind: CommandMove, Direction: core.Right},
	ebiten.KeyK:          {Kind: CommandMove, Direction: core.Up},
	ebiten.KeyJ:          {Kind: CommandMove, Direction: core.Down},
	ebiten.KeySpace:      {Kind: CommandPlannerMove},
	ebiten.KeyA:          {Kind: CommandToggleAutoplay},
	ebiten.KeyR:          {Kind: CommandRestart},
}

// Handler turns keyboard presses and mouse swipes into commands.
type Handler struct {
	swipe Swipe
}

func NewHandler(minSwipe int) *Handler {
	return &Handler{swipe: Swipe{MinDistance: minSwipe}}
}

// Update returns the commands issued since the previous frame in key order,
// followed by a swipe move if one finished this frame.
func (h *Handler) Update() []Command {
	var cmds []Command
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if c, ok := keyCommands[k]; ok {
			cmds = append(cmds, c)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.swipe.Begin(ebiten.CursorPosition())
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if d, ok := h.swipe.End(ebiten.CursorPosition()); ok {
			cmds = append(cmds, Command{Kind: CommandMove, Direction: d})
		}
	}
	return cmds
}
