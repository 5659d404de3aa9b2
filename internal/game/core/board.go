package core

import "math/bits"

const (
	// Size is the side length of the board. Only 4x4 boards are supported.
	Size = 4
	// Cells is the number of cells on the board.
	Cells = Size * Size
	// MaxExponent bounds the exponents used for one-hot encoding (2^17 = 131072).
	MaxExponent = 17
)

// Tile represents a single cell on the board.
// Exponent 0 means the cell is empty; otherwise the displayed value is 2^Exponent.
// ID is assigned at spawn time and is only used for stable render identity.
type Tile struct {
	ID         uint32
	Exponent   uint32
	IsNew      bool
	JustMerged bool
}

func (t Tile) IsEmpty() bool { return t.Exponent == 0 }

// Value returns the displayed value of the tile, 0 for an empty cell.
func (t Tile) Value() uint32 {
	if t.Exponent == 0 {
		return 0
	}
	return 1 << t.Exponent
}

// NewTile returns a freshly spawned tile.
func NewTile(id, exponent uint32) Tile {
	return Tile{ID: id, Exponent: exponent, IsNew: true}
}

// Row is one line of the board in slide order.
type Row [Size]Tile

// Board is a fixed 4x4 grid indexed [row][col]. It is a plain value:
// assigning a Board copies every tile.
type Board [Size][Size]Tile

// Transpose returns the board mirrored along its main diagonal.
func (b Board) Transpose() Board {
	var out Board
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i][j] = b[j][i]
		}
	}
	return out
}

// ReverseRows returns the board with every row reversed.
func (b Board) ReverseRows() Board {
	var out Board
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i][Size-1-j] = b[i][j]
		}
	}
	return out
}

// Exponents returns the row-major exponents of the board.
func (b Board) Exponents() [Cells]uint32 {
	var out [Cells]uint32
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i*Size+j] = b[i][j].Exponent
		}
	}
	return out
}

// EmptyCount returns the number of empty cells.
func (b Board) EmptyCount() int {
	n := 0
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if b[i][j].IsEmpty() {
				n++
			}
		}
	}
	return n
}

// HasMerge reports whether any two orthogonally adjacent cells share an exponent.
func (b Board) HasMerge() bool {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			e := b[i][j].Exponent
			if i < Size-1 && e == b[i+1][j].Exponent {
				return true
			}
			if j < Size-1 && e == b[i][j+1].Exponent {
				return true
			}
		}
	}
	return false
}

// ExponentOf converts a displayed tile value (a power of two, or 0) to its exponent.
func ExponentOf(value uint32) (uint32, error) {
	if value == 0 {
		return 0, nil
	}
	if value == 1 || bits.OnesCount32(value) != 1 {
		return 0, ErrInvalidExponent
	}
	return uint32(bits.TrailingZeros32(value)), nil
}
