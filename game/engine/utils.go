package engine

// Board rendering characters for text consumers (MCP, analysis tools)
const (
	boardEmpty = '.'
	boardHead  = '@'
	boardBody  = 'o'
	boardFood  = '*'
)

// BoardRows renders a snapshot as text rows, one string per grid row. Head is
// '@', body segments 'o', food '*', free cells '.'.
func BoardRows(snap Snapshot) []string {
	rows := make([]string, snap.GridSize)
	row := make([]byte, snap.GridSize)

	for y := 0; y < snap.GridSize; y++ {
		for x := 0; x < snap.GridSize; x++ {
			row[x] = boardEmpty
		}
		if snap.Food.Y == y && InBounds(snap.Food, snap.GridSize) {
			row[snap.Food.X] = boardFood
		}
		for i := len(snap.Snake) - 1; i >= 0; i-- {
			seg := snap.Snake[i]
			if seg.Y != y || !InBounds(seg, snap.GridSize) {
				continue
			}
			if i == 0 {
				row[seg.X] = boardHead
			} else {
				row[seg.X] = boardBody
			}
		}
		rows[y] = string(row)
	}

	return rows
}
