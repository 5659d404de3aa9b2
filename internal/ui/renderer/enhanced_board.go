package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/Evolve2048/internal/common"
	"github.com/mitchelldurbincs/Evolve2048/internal/game"
)

var (
	NewTileColor    = color.RGBA{255, 255, 255, 160} // Outline for freshly spawned tiles
	MergedTileColor = color.RGBA{255, 215, 0, 200}   // Outline for tiles produced by a merge
)

// EnhancedBoardRenderer adds move feedback on top of BoardRenderer: outlines
// for spawned and merged tiles and a game over overlay.
type EnhancedBoardRenderer struct {
	*BoardRenderer

	// highlightFrames counts down after each move
	highlightFrames int
	highlightFor    int
}

func NewEnhancedBoardRenderer(tileSize, offsetX, offsetY int, f font.Face) *EnhancedBoardRenderer {
	return &EnhancedBoardRenderer{
		BoardRenderer: NewBoardRenderer(tileSize, offsetX, offsetY, f),
		highlightFor:  12,
	}
}

// Highlight restarts the spawn and merge outlines.
func (ebr *EnhancedBoardRenderer) Highlight() {
	ebr.highlightFrames = ebr.highlightFor
}

// Tick advances the outline timer by one frame.
func (ebr *EnhancedBoardRenderer) Tick() {
	if ebr.highlightFrames > 0 {
		ebr.highlightFrames--
	}
}

// Draw renders the board, then outlines and the game over overlay.
func (ebr *EnhancedBoardRenderer) Draw(screen *ebiten.Image, tiles []game.TileInfo, gameOver bool) {
	ebr.BoardRenderer.Draw(screen, tiles)

	if ebr.highlightFrames > 0 {
		ts := float32(ebr.tileSize)
		width := float32(ebr.gap) / 2
		for _, t := range tiles {
			var c color.Color
			switch {
			case t.IsNew:
				c = NewTileColor
			case t.JustMerged:
				c = MergedTileColor
			default:
				continue
			}
			x, y := ebr.cellOrigin(t.Row, t.Col)
			vector.StrokeRect(screen, x, y, ts, ts, width, c, false)
		}
	}

	if gameOver {
		size := float32(ebr.BoardSize())
		vector.DrawFilledRect(screen, float32(ebr.offsetX), float32(ebr.offsetY), size, size, common.GameOverColor, false)
		if ebr.defaultFont != nil {
			const msg = "Game over - press R"
			b := text.BoundString(ebr.defaultFont, msg)
			x := ebr.offsetX + (ebr.BoardSize()-b.Dx())/2
			y := ebr.offsetY + ebr.BoardSize()/2
			text.Draw(screen, msg, ebr.defaultFont, x, y, common.DarkTextColor)
		}
	}
}
