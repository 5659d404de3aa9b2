package renderer

import (
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/Evolve2048/internal/common"
	"github.com/mitchelldurbincs/Evolve2048/internal/game"
	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
)

// BoardRenderer draws the grid and its tiles.
type BoardRenderer struct {
	tileSize    int
	gap         int
	offsetX     int
	offsetY     int
	defaultFont font.Face
}

// NewBoardRenderer returns a renderer ready to use. The board is drawn with
// its top-left corner at (offsetX, offsetY).
func NewBoardRenderer(tileSize, offsetX, offsetY int, f font.Face) *BoardRenderer {
	return &BoardRenderer{
		tileSize:    tileSize,
		gap:         tileSize / 12,
		offsetX:     offsetX,
		offsetY:     offsetY,
		defaultFont: f,
	}
}

// BoardSize is the side length of the drawn board in pixels.
func (br *BoardRenderer) BoardSize() int {
	return core.Size*br.tileSize + (core.Size+1)*br.gap
}

// cellOrigin is the top-left pixel of the cell at (row, col).
func (br *BoardRenderer) cellOrigin(row, col int) (float32, float32) {
	x := br.offsetX + br.gap + col*(br.tileSize+br.gap)
	y := br.offsetY + br.gap + row*(br.tileSize+br.gap)
	return float32(x), float32(y)
}

// Draw renders the grid, empty cells and every tile in tiles.
func (br *BoardRenderer) Draw(screen *ebiten.Image, tiles []game.TileInfo) {
	size := float32(br.BoardSize())
	vector.DrawFilledRect(screen, float32(br.offsetX), float32(br.offsetY), size, size, common.GridColor, false)

	ts := float32(br.tileSize)
	for row := 0; row < core.Size; row++ {
		for col := 0; col < core.Size; col++ {
			x, y := br.cellOrigin(row, col)
			vector.DrawFilledRect(screen, x, y, ts, ts, common.TileColor(0), false)
		}
	}

	for _, t := range tiles {
		br.drawTile(screen, t)
	}
}

func (br *BoardRenderer) drawTile(screen *ebiten.Image, t game.TileInfo) {
	exp, _ := core.ExponentOf(t.Value)
	x, y := br.cellOrigin(t.Row, t.Col)
	ts := float32(br.tileSize)
	vector.DrawFilledRect(screen, x, y, ts, ts, common.TileColor(exp), false)

	if br.defaultFont == nil {
		return
	}
	label := strconv.FormatUint(uint64(t.Value), 10)
	b := text.BoundString(br.defaultFont, label)
	textW := b.Max.X - b.Min.X
	textH := b.Max.Y - b.Min.Y
	tx := int(x) + (br.tileSize-textW)/2
	ty := int(y) + (br.tileSize+textH)/2
	text.Draw(screen, label, br.defaultFont, tx, ty, common.TileTextColor(exp))
}
