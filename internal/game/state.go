package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
)

// Rand is the randomness a State draws spawns from. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// State is one 2048 game. It is a plain value: copying a State by assignment
// yields a fully independent game that inherits the tile id counter.
type State struct {
	Board      core.Board
	Score      uint32
	Moves      int
	NextTileID uint32
}

// Cell addresses a board position.
type Cell struct {
	Row, Col int
}

// TileInfo is the read-only view of one occupied cell handed to renderers.
type TileInfo struct {
	ID         uint32
	Row        int
	Col        int
	Value      uint32
	IsNew      bool
	JustMerged bool
}

// New starts a game with two spawned tiles.
func New(r Rand) State {
	var s State
	s.SpawnTile(r)
	s.SpawnTile(r)
	return s
}

// FromExponents builds a state from row-major exponents. No tile is spawned and
// occupied cells get ids 1..n in row-major order.
func FromExponents(exps [core.Cells]uint32) (State, error) {
	var s State
	for i, e := range exps {
		if e > core.MaxExponent {
			return State{}, fmt.Errorf("cell %d exponent %d: %w", i, e, core.ErrInvalidExponent)
		}
		if e == 0 {
			continue
		}
		s.NextTileID++
		s.Board[i/core.Size][i%core.Size] = core.Tile{ID: s.NextTileID, Exponent: e}
	}
	return s, nil
}

// FromValues is FromExponents for displayed values (0 for empty cells).
func FromValues(values [core.Size][core.Size]uint32) (State, error) {
	var exps [core.Cells]uint32
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			e, err := core.ExponentOf(values[i][j])
			if err != nil {
				return State{}, fmt.Errorf("cell (%d,%d) value %d: %w", i, j, values[i][j], err)
			}
			exps[i*core.Size+j] = e
		}
	}
	return FromExponents(exps)
}

// Reset replaces the game with a fresh two-tile game and zeroed counters.
func (s *State) Reset(r Rand) {
	*s = New(r)
}

// Move slides the board in direction d and reports whether any tile moved or merged.
// No tile is spawned.
func (s *State) Move(d core.Direction) bool {
	_, changed := s.move(d)
	return changed
}

func (s *State) move(d core.Direction) (uint32, bool) {
	board, gained, changed := core.Slide(s.Board, d)
	if !changed {
		// Render flags survive a rejected move.
		return 0, false
	}
	s.Board = board
	s.Score += gained
	return gained, true
}

// EmptyCells lists empty positions in row-major order.
func (s *State) EmptyCells() []Cell {
	cells := make([]Cell, 0, core.Cells)
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			if s.Board[i][j].IsEmpty() {
				cells = append(cells, Cell{Row: i, Col: j})
			}
		}
	}
	return cells
}

// SpawnTile places a 2 (90%) or a 4 (10%) on a uniformly chosen empty cell.
// The tile counter advances even when the board is full and nothing is placed.
func (s *State) SpawnTile(r Rand) {
	empty := s.EmptyCells()
	s.NextTileID++
	if len(empty) == 0 {
		return
	}
	c := empty[r.Intn(len(empty))]
	exp := uint32(1)
	if r.Intn(10) == 0 {
		exp = 2
	}
	s.Board[c.Row][c.Col] = core.NewTile(s.NextTileID, exp)
}

// Step applies d and, if the board changed, spawns a tile and counts the move.
func (s *State) Step(d core.Direction, r Rand) bool {
	_, changed := s.StepGain(d, r)
	return changed
}

// StepGain is Step that also returns the score gained by merges.
func (s *State) StepGain(d core.Direction, r Rand) (uint32, bool) {
	gained, changed := s.move(d)
	if changed {
		s.SpawnTile(r)
		s.Moves++
	}
	return gained, changed
}

// CanMove reports whether d would change the board, without mutating s.
func (s State) CanMove(d core.Direction) bool {
	_, _, changed := core.Slide(s.Board, d)
	return changed
}

// LegalMoves lists the directions that change the board, in enumeration order.
func (s State) LegalMoves() []core.Direction {
	moves := make([]core.Direction, 0, core.NumDirections)
	for _, d := range core.AllDirections {
		if s.CanMove(d) {
			moves = append(moves, d)
		}
	}
	return moves
}

// IsTerminal reports whether the board is full with no equal neighbours.
func (s State) IsTerminal() bool {
	return s.Board.EmptyCount() == 0 && !s.Board.HasMerge()
}

// Encode flattens the board into 16 raw exponents.
func (s State) Encode() []float64 {
	exps := s.Board.Exponents()
	out := make([]float64, core.Cells)
	for i, e := range exps {
		out[i] = float64(e)
	}
	return out
}

// OneHot encodes every cell as MaxExponent slots with a 1 at its exponent.
// Empty cells stay all zero; exponents beyond the last slot saturate into it.
func (s State) OneHot() []float64 {
	exps := s.Board.Exponents()
	out := make([]float64, core.Cells*core.MaxExponent)
	for i, e := range exps {
		if e == 0 {
			continue
		}
		if e >= core.MaxExponent {
			e = core.MaxExponent - 1
		}
		out[i*core.MaxExponent+int(e)] = 1
	}
	return out
}

// HighestTile returns the largest displayed value. ok is false on an empty board.
func (s State) HighestTile() (value uint32, ok bool) {
	var best core.Tile
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			if s.Board[i][j].Exponent > best.Exponent {
				best = s.Board[i][j]
			}
		}
	}
	if best.IsEmpty() {
		return 0, false
	}
	return best.Value(), true
}

// Tiles lists the occupied cells ordered by tile id.
func (s State) Tiles() []TileInfo {
	tiles := make([]TileInfo, 0, core.Cells)
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			t := s.Board[i][j]
			if t.IsEmpty() {
				continue
			}
			tiles = append(tiles, TileInfo{
				ID:         t.ID,
				Row:        i,
				Col:        j,
				Value:      t.Value(),
				IsNew:      t.IsNew,
				JustMerged: t.JustMerged,
			})
		}
	}
	sort.SliceStable(tiles, func(a, b int) bool { return tiles[a].ID < tiles[b].ID })
	return tiles
}

func (s State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "score=%d moves=%d\n", s.Score, s.Moves)
	for i := 0; i < core.Size; i++ {
		for j := 0; j < core.Size; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			if v := s.Board[i][j].Value(); v == 0 {
				fmt.Fprintf(&sb, "%6s", ".")
			} else {
				fmt.Fprintf(&sb, "%6d", v)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
