package engine

// Board geometry for the fixed 10x10 grid. Cells are addressed either by
// (x, y) coordinates or by a linear index in [0, CellCount).

const (
	GridSize  = 10
	CellCount = GridSize * GridSize
)

// CellIndex maps grid coordinates to a linear cell index.
// Returns false if the coordinates fall outside the grid.
func CellIndex(x, y int) (int, bool) {
	if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
		return 0, false
	}
	return y*GridSize + x, true
}

// CellCoords is the inverse of CellIndex.
func CellCoords(index int) (x, y int) {
	return index % GridSize, index / GridSize
}

// ValidIndex reports whether index addresses a cell on the grid.
func ValidIndex(index int) bool {
	return index >= 0 && index < CellCount
}
