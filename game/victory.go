package game

// IsVictory reports a win: every mine flagged and every other cell revealed.
// Both halves are required; revealing all safe cells without flagging the
// mines is not a win.
func IsVictory(grid *Grid, mineCount int) bool {
	flaggedMines := 0
	hiddenSafe := 0
	for i := range grid.cells {
		cell := &grid.cells[i]
		if cell.isMine && cell.isFlagged {
			flaggedMines++
		}
		if !cell.isMine && !cell.isRevealed {
			hiddenSafe++
		}
	}
	return flaggedMines == mineCount && hiddenSafe == 0
}
