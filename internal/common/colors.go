package common

import (
	"image/color"
)

// TileColors maps a tile exponent to its fill colour. Exponent 0 is an empty cell.
var TileColors = map[uint32]color.RGBA{
	0:  {205, 193, 180, 255},
	1:  {238, 228, 218, 255}, // 2
	2:  {237, 224, 200, 255}, // 4
	3:  {242, 177, 121, 255}, // 8
	4:  {245, 149, 99, 255},  // 16
	5:  {246, 124, 95, 255},  // 32
	6:  {246, 94, 59, 255},   // 64
	7:  {237, 207, 114, 255}, // 128
	8:  {237, 204, 97, 255},  // 256
	9:  {237, 200, 80, 255},  // 512
	10: {237, 197, 63, 255},  // 1024
	11: {237, 194, 46, 255},  // 2048
}

// Tile colors
var (
	// SuperTileColor fills every tile above 2048
	SuperTileColor = color.RGBA{60, 58, 50, 255}
	DarkTextColor  = color.RGBA{119, 110, 101, 255}
	LightTextColor = color.RGBA{249, 246, 242, 255}
)

// UI colors
var (
	BackgroundColor = color.RGBA{250, 248, 239, 255}
	GridColor       = color.RGBA{187, 173, 160, 255}
	StatusTextColor = color.RGBA{119, 110, 101, 255}
	GameOverColor   = color.RGBA{238, 228, 218, 186}
)

// TileColor returns the fill colour for a tile exponent
func TileColor(exponent uint32) color.RGBA {
	if c, ok := TileColors[exponent]; ok {
		return c
	}
	return SuperTileColor
}

// TileTextColor returns a label colour that reads well on TileColor(exponent).
// The two smallest tiles are light and take dark text.
func TileTextColor(exponent uint32) color.RGBA {
	if exponent <= 2 {
		return DarkTextColor
	}
	return LightTextColor
}
