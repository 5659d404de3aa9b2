package core

// SlideLeft compacts the non-empty tiles of a row towards index 0 and merges
// equal neighbours left to right. A tile takes part in at most one merge.
// It returns the new row, the score gained (2^new exponent per merge) and
// whether the exponent sequence changed.
func SlideLeft(row Row) (Row, uint32, bool) {
	var out Row
	var gained uint32
	pos := 0
	for _, tile := range row {
		if tile.IsEmpty() {
			continue
		}
		switch {
		case out[pos].IsEmpty():
			out[pos] = tile
			out[pos].JustMerged = false
		case out[pos].Exponent == tile.Exponent:
			out[pos].Exponent++
			out[pos].JustMerged = true
			gained += 1 << out[pos].Exponent
			pos++
		default:
			pos++
			out[pos] = tile
			out[pos].JustMerged = false
		}
		out[pos].IsNew = false
	}
	changed := false
	for i := range row {
		if row[i].Exponent != out[i].Exponent {
			changed = true
			break
		}
	}
	return out, gained, changed
}

// SlideBoardLeft applies SlideLeft to every row of the board.
func SlideBoardLeft(b Board) (Board, uint32, bool) {
	var out Board
	var gained uint32
	changed := false
	for i := 0; i < Size; i++ {
		row, g, c := SlideLeft(Row(b[i]))
		out[i] = row
		gained += g
		changed = changed || c
	}
	return out, gained, changed
}

// Slide reduces every direction to the canonical slide-left primitive:
// right reverses rows, up transposes, down transposes and reverses.
func Slide(b Board, d Direction) (Board, uint32, bool) {
	switch d {
	case Left:
		return SlideBoardLeft(b)
	case Right:
		out, g, c := SlideBoardLeft(b.ReverseRows())
		return out.ReverseRows(), g, c
	case Up:
		out, g, c := SlideBoardLeft(b.Transpose())
		return out.Transpose(), g, c
	case Down:
		out, g, c := SlideBoardLeft(b.Transpose().ReverseRows())
		return out.ReverseRows().Transpose(), g, c
	default:
		return b, 0, false
	}
}
