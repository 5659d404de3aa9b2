package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/Evolve2048/internal/game/core"
	"github.com/mitchelldurbincs/Evolve2048/internal/testutil"
)

func mustValues(t *testing.T, values [core.Size][core.Size]uint32) State {
	t.Helper()
	s, err := FromValues(values)
	require.NoError(t, err)
	return s
}

func occupied(s State) int {
	return core.Cells - s.Board.EmptyCount()
}

func TestNew(t *testing.T) {
	s := New(testutil.NewTestRNG(1))

	assert.Equal(t, 2, occupied(s), "new game should hold two tiles")
	assert.Equal(t, uint32(2), s.NextTileID)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Moves)
	for _, tile := range s.Tiles() {
		assert.True(t, tile.IsNew)
		assert.Contains(t, []uint32{2, 4}, tile.Value)
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := New(testutil.NewTestRNG(42))
	b := New(testutil.NewTestRNG(42))
	assert.Equal(t, a, b)
}

func TestSpawnTile_Distribution(t *testing.T) {
	rng := testutil.NewTestRNG(7)
	fours := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		var s State
		s.SpawnTile(rng)
		v, ok := s.HighestTile()
		require.True(t, ok)
		if v == 4 {
			fours++
		}
	}
	ratio := float64(fours) / trials
	assert.InDelta(t, 0.1, ratio, 0.02, "roughly one spawn in ten should be a 4")
}

func TestSpawnTile_FullBoardStillAdvancesCounter(t *testing.T) {
	s, err := FromExponents(testutil.Flatten(testutil.TerminalExponents()))
	require.NoError(t, err)
	before := s.Board
	id := s.NextTileID

	s.SpawnTile(testutil.NewTestRNG(1))

	assert.Equal(t, before, s.Board, "full board must not change")
	assert.Equal(t, id+1, s.NextTileID, "counter advances even without a placement")
}

func TestSpawnTile_UsesCounterAsID(t *testing.T) {
	var s State
	s.NextTileID = 41
	s.SpawnTile(testutil.NewTestRNG(3))

	tiles := s.Tiles()
	require.Len(t, tiles, 1)
	assert.Equal(t, uint32(42), tiles[0].ID)
	assert.True(t, tiles[0].IsNew)
}

func TestMove_DistinctTopRow(t *testing.T) {
	base := mustValues(t, [core.Size][core.Size]uint32{
		{2, 4, 8, 16},
	})

	for _, d := range []core.Direction{core.Left, core.Right, core.Up} {
		t.Run(d.String(), func(t *testing.T) {
			s := base
			assert.False(t, s.Move(d))
			assert.Equal(t, base.Board, s.Board)
			assert.Zero(t, s.Score)
		})
	}

	t.Run("down", func(t *testing.T) {
		s := base
		assert.True(t, s.Move(core.Down))
		assert.Zero(t, s.Score, "compaction alone never scores")
		for j, want := range []uint32{2, 4, 8, 16} {
			assert.Equal(t, want, s.Board[core.Size-1][j].Value())
			assert.True(t, s.Board[0][j].IsEmpty())
		}
	})
}

func TestMove_MergeChain(t *testing.T) {
	s := mustValues(t, [core.Size][core.Size]uint32{
		{2, 2, 4, 0},
	})

	require.True(t, s.Move(core.Left))
	assert.Equal(t, uint32(4), s.Score)
	assert.Equal(t, uint32(4), s.Board[0][0].Value())
	assert.Equal(t, uint32(4), s.Board[0][1].Value())
	assert.True(t, s.Board[0][2].IsEmpty())

	require.True(t, s.Move(core.Left))
	assert.Equal(t, uint32(12), s.Score)
	assert.Equal(t, uint32(8), s.Board[0][0].Value())
	assert.True(t, s.Board[0][1].IsEmpty())
	assert.Zero(t, s.Moves, "Move does not count moves")
}

func TestMove_MergeFlags(t *testing.T) {
	s := mustValues(t, [core.Size][core.Size]uint32{
		{0, 0, 0, 0},
		{4, 0, 0, 4},
	})
	s.Board[0][0] = core.NewTile(99, 1)

	require.True(t, s.Move(core.Right))
	tile := s.Board[1][core.Size-1]
	assert.Equal(t, uint32(8), tile.Value())
	assert.True(t, tile.JustMerged)
	assert.False(t, tile.IsNew)
	for _, info := range s.Tiles() {
		assert.False(t, info.IsNew, "moving clears spawn flags")
	}
}

func TestMove_NoOpKeepsFlags(t *testing.T) {
	s := mustValues(t, [core.Size][core.Size]uint32{
		{4, 0, 0, 0},
		{2, 0, 0, 0},
	})
	s.Board[0][0].JustMerged = true
	s.Board[1][0].IsNew = true
	before := s

	assert.False(t, s.Move(core.Left))
	assert.Equal(t, before, s)
	assert.False(t, s.Step(core.Left, testutil.NewTestRNG(3)))
	assert.Equal(t, before, s, "a rejected step keeps spawn and merge flags")
}

func TestTerminal(t *testing.T) {
	s, err := FromExponents(testutil.Flatten(testutil.TerminalExponents()))
	require.NoError(t, err)

	assert.True(t, s.IsTerminal())
	assert.Empty(t, s.LegalMoves())
	for _, d := range core.AllDirections {
		assert.False(t, s.CanMove(d))
	}
}

func TestTerminal_FullBoardWithMerge(t *testing.T) {
	rows := testutil.TerminalExponents()
	rows[3][2], rows[3][3] = 3, 3
	s, err := FromExponents(testutil.Flatten(rows))
	require.NoError(t, err)

	assert.False(t, s.IsTerminal())
	assert.ElementsMatch(t, []core.Direction{core.Left, core.Right}, s.LegalMoves())
}

func TestLegalMoves_DoesNotMutate(t *testing.T) {
	s, err := FromExponents(testutil.Flatten(testutil.OnlyRightExponents()))
	require.NoError(t, err)
	before := s

	assert.Equal(t, []core.Direction{core.Right}, s.LegalMoves())
	assert.Equal(t, before, s)
}

func TestStep(t *testing.T) {
	rng := testutil.NewTestRNG(9)
	s := mustValues(t, [core.Size][core.Size]uint32{
		{2, 2, 0, 0},
	})
	id := s.NextTileID

	gained, changed := s.StepGain(core.Left, rng)
	require.True(t, changed)
	assert.Equal(t, uint32(4), gained)
	assert.Equal(t, uint32(4), s.Score)
	assert.Equal(t, 1, s.Moves)
	assert.Equal(t, id+1, s.NextTileID)
	assert.Equal(t, 2, occupied(s), "one merged tile plus one spawn")

	before := s
	changedAgain := s.Step(core.Left, rng)
	if !changedAgain {
		assert.Equal(t, before, s, "a no-op step leaves the state untouched")
	}
}

func TestStep_CloneIsIndependent(t *testing.T) {
	rng := testutil.NewTestRNG(11)
	s := New(rng)
	clone := s
	for _, d := range clone.LegalMoves() {
		clone.Step(d, rng)
	}
	assert.NotEqual(t, s, clone)
	assert.Equal(t, uint32(2), s.NextTileID)
	assert.GreaterOrEqual(t, clone.NextTileID, s.NextTileID, "clones inherit the counter")
}

func TestRandomPlayInvariants(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := testutil.NewTestRNG(seed)
		s := New(rng)
		for i := 0; i < 2000 && !s.IsTerminal(); i++ {
			legal := s.LegalMoves()
			require.NotEmpty(t, legal, "non-terminal state must have a legal move (seed %d)", seed)

			moved := s
			gained, changed := moved.move(legal[rng.Intn(len(legal))])
			require.True(t, changed)
			require.NotZero(t, moved.Board.EmptyCount(), "a changing move leaves an empty cell")

			prevScore := s.Score
			afterMove := occupied(moved)
			moved.SpawnTile(rng)
			moved.Moves++
			s = moved

			assert.Equal(t, prevScore+gained, s.Score)
			assert.Equal(t, afterMove+1, occupied(s), "exactly one tile spawns after a change")
		}
		assert.Equal(t, s.IsTerminal(), len(s.LegalMoves()) == 0)
	}
}

func TestEncode(t *testing.T) {
	s, err := FromExponents(testutil.Flatten(testutil.GradientExponents()))
	require.NoError(t, err)

	flat := s.Encode()
	require.Len(t, flat, core.Cells)
	for i, v := range flat {
		assert.Equal(t, float64(i), v)
	}
}

func TestOneHot(t *testing.T) {
	s, err := FromExponents(testutil.Flatten(testutil.GradientExponents()))
	require.NoError(t, err)

	enc := s.OneHot()
	require.Len(t, enc, core.Cells*core.MaxExponent)
	assert.Equal(t, 0.0, enc[0])
	assert.Equal(t, 1.0, enc[core.MaxExponent+1])
	assert.Equal(t, 1.0, enc[core.MaxExponent*4+4])
	assert.Equal(t, 1.0, enc[core.MaxExponent*15+15])

	sum := 0.0
	for _, v := range enc {
		sum += v
	}
	assert.Equal(t, 15.0, sum, "one slot per occupied cell")
}

func TestHighestTile(t *testing.T) {
	var empty State
	_, ok := empty.HighestTile()
	assert.False(t, ok)

	s, err := FromExponents(testutil.Flatten(testutil.GradientExponents()))
	require.NoError(t, err)
	v, ok := s.HighestTile()
	assert.True(t, ok)
	assert.Equal(t, uint32(32768), v)
}

func TestTiles_SortedByID(t *testing.T) {
	s := New(testutil.NewTestRNG(2))
	rng := testutil.NewTestRNG(3)
	for i := 0; i < 30 && !s.IsTerminal(); i++ {
		legal := s.LegalMoves()
		s.Step(legal[rng.Intn(len(legal))], rng)
	}

	tiles := s.Tiles()
	assert.Len(t, tiles, occupied(s))
	for i := 1; i < len(tiles); i++ {
		assert.Less(t, tiles[i-1].ID, tiles[i].ID)
	}
	for _, info := range tiles {
		assert.Equal(t, s.Board[info.Row][info.Col].Value(), info.Value)
	}
}

func TestFromValues_Invalid(t *testing.T) {
	_, err := FromValues([core.Size][core.Size]uint32{{3}})
	assert.ErrorIs(t, err, core.ErrInvalidExponent)

	_, err = FromExponents([core.Cells]uint32{core.MaxExponent + 1})
	assert.ErrorIs(t, err, core.ErrInvalidExponent)
}

func TestReset(t *testing.T) {
	rng := testutil.NewTestRNG(4)
	s := mustValues(t, [core.Size][core.Size]uint32{{1024, 1024}})
	s.Score = 500
	s.Moves = 20

	s.Reset(rng)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Moves)
	assert.Equal(t, uint32(2), s.NextTileID)
	assert.Equal(t, 2, occupied(s))
}

func TestString(t *testing.T) {
	s := mustValues(t, [core.Size][core.Size]uint32{{2, 0, 0, 2048}})
	out := s.String()
	assert.Contains(t, out, "score=0 moves=0")
	assert.Contains(t, out, "2048")
}
