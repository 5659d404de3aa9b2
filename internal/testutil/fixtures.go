package testutil

import "github.com/mitchelldurbincs/Evolve2048/internal/game/core"

// BoardFromExponents builds a board from rows of exponents. Occupied cells get
// ids 1..n in row-major order.
func BoardFromExponents(rows [core.Size][core.Size]uint32) core.Board {
	var b core.Board
	var id uint32
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			if rows[i][j] == 0 {
				continue
			}
			id++
			b[i][j] = core.Tile{ID: id, Exponent: rows[i][j]}
		}
	}
	return b
}

// TerminalExponents is a full checkerboard of 2s and 4s with no legal move.
func TerminalExponents() [core.Size][core.Size]uint32 {
	return [core.Size][core.Size]uint32{
		{1, 2, 1, 2},
		{2, 1, 2, 1},
		{1, 2, 1, 2},
		{2, 1, 2, 1},
	}
}

// OnlyRightExponents has an empty last column and no equal neighbours,
// so sliding right is the only legal move.
func OnlyRightExponents() [core.Size][core.Size]uint32 {
	return [core.Size][core.Size]uint32{
		{1, 2, 1, 0},
		{2, 1, 2, 0},
		{1, 2, 1, 0},
		{2, 1, 2, 0},
	}
}

// GradientExponents holds exponents 0..15 in row-major order.
func GradientExponents() [core.Size][core.Size]uint32 {
	var rows [core.Size][core.Size]uint32
	for i := 0; i < core.Cells; i++ {
		rows[i/core.Size][i%core.Size] = uint32(i)
	}
	return rows
}

// Flatten converts rows into the row-major form used by game.FromExponents.
func Flatten(rows [core.Size][core.Size]uint32) [core.Cells]uint32 {
	var out [core.Cells]uint32
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			out[i*core.Size+j] = rows[i][j]
		}
	}
	return out
}
